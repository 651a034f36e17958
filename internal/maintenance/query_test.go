package maintenance_test

import (
	"net/url"

	apperrors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/maintenance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseQuery", func() {
	parse := func(raw string) (maintenance.Query, error) {
		values, err := url.ParseQuery(raw)
		Expect(err).NotTo(HaveOccurred())
		return maintenance.ParseQuery(values)
	}

	It("strips reserved keys from the filter and passes them through", func() {
		q, err := parse("stage=new&sort=-created_at,priority&page=2&limit=10&select=subject,stage")

		Expect(err).NotTo(HaveOccurred())
		Expect(q.Filter).To(HaveLen(1))
		Expect(q.Filter).To(HaveKeyWithValue("stage", []interface{}{"new"}))
		Expect(q.Sort).To(Equal([]maintenance.SortField{
			{Column: "created_at", Desc: true},
			{Column: "priority", Desc: false},
		}))
		Expect(q.Select).To(Equal([]string{"subject", "stage"}))
		Expect(q.Page).To(Equal(2))
		Expect(q.Limit).To(Equal(10))
		Expect(q.Offset()).To(Equal(10))
	})

	It("parses id filters as integers and lists as IN", func() {
		q, err := parse("equipment_id=4&stage=new,in-progress")

		Expect(err).NotTo(HaveOccurred())
		Expect(q.Filter["equipment_id"]).To(Equal([]interface{}{int64(4)}))

		where, args, err := q.Predicate()
		Expect(err).NotTo(HaveOccurred())
		Expect(where).To(ContainSubstring("equipment_id = ?"))
		Expect(where).To(ContainSubstring("stage IN (?,?)"))
		Expect(args).To(ConsistOf(int64(4), "new", "in-progress"))
	})

	It("renders no predicate for an empty filter", func() {
		q, err := parse("")

		Expect(err).NotTo(HaveOccurred())
		where, args, err := q.Predicate()
		Expect(err).NotTo(HaveOccurred())
		Expect(where).To(BeEmpty())
		Expect(args).To(BeEmpty())
		Expect(q.Offset()).To(BeZero())
	})

	DescribeTable("rejects bad input on the offending field",
		func(raw, field string) {
			_, err := parse(raw)

			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(apperrors.ErrorTypeValidation))
			Expect(appErr.Field()).To(Equal(field))
		},
		Entry("unknown filter field", "colour=red", "colour"),
		Entry("bad stage value", "stage=bogus", "stage"),
		Entry("non-numeric id", "assigned_team_id=abc", "assigned_team_id"),
		Entry("unsortable field", "sort=description", "sort"),
		Entry("unselectable field", "select=password", "select"),
		Entry("limit too large", "limit=1000", "limit"),
		Entry("zero page", "page=0", "page"),
	)
})

var _ = Describe("Project", func() {
	It("keeps id and the selected fields", func() {
		views := []*maintenance.RequestView{{ID: 3, Subject: "Belt", Stage: maintenance.StageNew}}

		out, err := maintenance.Project(views, []string{"subject"})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0]).To(HaveLen(2))
		Expect(out[0]).To(HaveKeyWithValue("subject", "Belt"))
		Expect(out[0]).To(HaveKey("id"))
	})
})
