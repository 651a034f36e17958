package store_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/gearguard/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   int64
	Name string
}

var _ = Describe("TxManager", func() {
	var (
		db  *gorm.DB
		txm store.TxManager
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&widget{})).To(Succeed())

		txm = store.NewTxManager(db)
		ctx = context.Background()
	})

	count := func() int64 {
		var n int64
		Expect(db.Model(&widget{}).Count(&n).Error).To(Succeed())
		return n
	}

	It("commits writes made through Conn", func() {
		err := txm.WithinTransaction(ctx, func(ctx context.Context) error {
			return store.Conn(ctx, db).Create(&widget{Name: "a"}).Error
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(count()).To(Equal(int64(1)))
	})

	It("rolls back every write when fn fails", func() {
		// Given
		boom := errors.New("boom")

		// When
		err := txm.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := store.Conn(ctx, db).Create(&widget{Name: "a"}).Error; err != nil {
				return err
			}
			return boom
		})

		// Then
		Expect(err).To(MatchError(boom))
		Expect(count()).To(BeZero())
	})

	It("joins an outer transaction instead of nesting", func() {
		err := txm.WithinTransaction(ctx, func(outer context.Context) error {
			Expect(store.Conn(outer, db).Create(&widget{Name: "outer"}).Error).To(Succeed())
			return txm.WithinTransaction(outer, func(inner context.Context) error {
				return store.Conn(inner, db).Create(&widget{Name: "inner"}).Error
			})
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(count()).To(Equal(int64(2)))
	})
})
