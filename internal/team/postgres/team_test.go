package postgres_test

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/frahmantamala/gearguard/internal"
	teamDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/team"
	userDatamodel "github.com/frahmantamala/gearguard/internal/core/datamodel/user"
	"github.com/frahmantamala/gearguard/internal/store/storetest"
	"github.com/frahmantamala/gearguard/internal/team"
	teamPostgres "github.com/frahmantamala/gearguard/internal/team/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestTeamPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Team Postgres Suite")
}

var _ = Describe("Team Repository", func() {
	var (
		db    *gorm.DB
		repo  team.RepositoryAPI
		ctx   context.Context
		alice userDatamodel.User
		bob   userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		db, err = storetest.NewDB()
		Expect(err).NotTo(HaveOccurred())
		repo = teamPostgres.NewTeamRepository(db)
		ctx = context.Background()

		alice = userDatamodel.User{Name: "Alice", Email: "alice@gearguard.com", PasswordHash: "x", Role: "technician", IsActive: true}
		bob = userDatamodel.User{Name: "Bob", Email: "bob@gearguard.com", PasswordHash: "x", Role: "technician", IsActive: true}
		Expect(db.Create(&alice).Error).To(Succeed())
		Expect(db.Create(&bob).Error).To(Succeed())
	})

	It("preloads members", func() {
		t := &teamDatamodel.MaintenanceTeam{Name: "Mechanics", Description: "Heavy"}
		Expect(repo.Create(ctx, t)).To(Succeed())
		Expect(repo.ReplaceMembers(ctx, t.ID, []int64{alice.ID, bob.ID, alice.ID})).To(Succeed())

		got, err := repo.GetByID(ctx, t.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Members).To(HaveLen(2))
	})

	It("treats adding an existing member as a no-op", func() {
		t := &teamDatamodel.MaintenanceTeam{Name: "Mechanics", Description: "Heavy"}
		Expect(repo.Create(ctx, t)).To(Succeed())

		Expect(repo.AddMember(ctx, t.ID, alice.ID)).To(Succeed())
		Expect(repo.AddMember(ctx, t.ID, alice.ID)).To(Succeed())

		got, err := repo.GetByID(ctx, t.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Members).To(HaveLen(1))

		Expect(repo.RemoveMember(ctx, t.ID, alice.ID)).To(Succeed())
		got, err = repo.GetByID(ctx, t.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Members).To(BeEmpty())
	})

	It("rejects duplicate team names on team_name", func() {
		Expect(repo.Create(ctx, &teamDatamodel.MaintenanceTeam{Name: "IT", Description: "a"})).To(Succeed())

		err := repo.Create(ctx, &teamDatamodel.MaintenanceTeam{Name: "IT", Description: "b"})

		appErr, ok := apperrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Field()).To(Equal("team_name"))
	})

	It("removes membership rows with the team", func() {
		t := &teamDatamodel.MaintenanceTeam{Name: "IT", Description: "a"}
		Expect(repo.Create(ctx, t)).To(Succeed())
		Expect(repo.AddMember(ctx, t.ID, bob.ID)).To(Succeed())

		Expect(repo.Delete(ctx, t.ID)).To(Succeed())

		var n int64
		Expect(db.Model(&teamDatamodel.TeamMember{}).Count(&n).Error).To(Succeed())
		Expect(n).To(BeZero())
		_, err := repo.GetByID(ctx, t.ID)
		Expect(errors.Is(err, apperrors.ErrTeamNotFound)).To(BeTrue())
	})
})
