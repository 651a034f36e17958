package validation_test

import (
	"strings"

	errors "github.com/frahmantamala/gearguard/internal"
	"github.com/frahmantamala/gearguard/internal/core/common/validation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

type sampleDTO struct {
	Name       string           `json:"name" validate:"required,notblank"`
	Priority   string           `json:"priority" validate:"omitempty,oneof=low medium high"`
	HoursSpent *decimal.Decimal `json:"hours_spent,omitempty" validate:"omitempty,nonneg"`
}

var _ = Describe("ValidationBuilder", func() {
	It("collects the first failure of each field", func() {
		// Given
		v := validation.NewValidator()
		v.Field("name", "").Required().MinLength(3)
		v.Field("status", "broken").OneOf("active", "maintenance", "scrapped")

		// When
		err := v.Validate()

		// Then
		Expect(err).NotTo(BeNil())
		Expect(err.Type).To(Equal(errors.ErrorTypeValidation))
		Expect(err.FieldErrors()).To(HaveLen(2))
		Expect(err.FieldErrors()).To(HaveKeyWithValue("name", "name is required"))
		Expect(err.FieldErrors()).To(HaveKey("status"))
	})

	It("treats whitespace-only strings as missing", func() {
		v := validation.NewValidator()
		v.Field("team_name", "   ").Required()

		err := v.Validate()

		Expect(err).NotTo(BeNil())
		Expect(err.Field()).To(Equal("team_name"))
	})

	It("rejects negative decimals", func() {
		v := validation.NewValidator()
		v.Field("hours_spent", decimal.NewFromFloat(-1.5)).NonNegative()

		Expect(v.Validate()).NotTo(BeNil())
	})

	It("passes when every rule holds", func() {
		v := validation.NewValidator()
		v.Field("name", "CNC Machine").Required().MaxLength(120)
		v.Field("status", "active").OneOf("active", "maintenance", "scrapped")

		Expect(v.Validate()).To(BeNil())
	})
})

var _ = Describe("Struct", func() {
	It("reports json field names", func() {
		neg := decimal.NewFromInt(-2)
		err := validation.Struct(sampleDTO{Name: " ", Priority: "urgent", HoursSpent: &neg})

		Expect(err).NotTo(BeNil())
		fields := err.FieldErrors()
		Expect(fields).To(HaveKey("name"))
		Expect(fields).To(HaveKey("priority"))
		Expect(fields).To(HaveKey("hours_spent"))
	})

	It("accepts a valid dto", func() {
		Expect(validation.Struct(sampleDTO{Name: "Pump", Priority: "low"})).To(BeNil())
	})
})

var _ = Describe("DecodeStrict", func() {
	It("names the unknown field", func() {
		var dto sampleDTO
		err := validation.DecodeStrict(strings.NewReader(`{"name":"x","created_by":5}`), &dto)

		Expect(err).NotTo(BeNil())
		Expect(err.Field()).To(Equal("created_by"))
		Expect(err.FieldErrors()["created_by"]).To(ContainSubstring("cannot be set"))
	})

	It("decodes known fields", func() {
		var dto sampleDTO
		err := validation.DecodeStrict(strings.NewReader(`{"name":"x","priority":"high"}`), &dto)

		Expect(err).To(BeNil())
		Expect(dto.Priority).To(Equal("high"))
	})
})

type hoursDTO struct {
	HoursSpent *decimal.Decimal `json:"hours_spent,omitempty" validate:"omitempty,nonneg,precision=10:2"`
}

var _ = Describe("NUMERIC(10, 2) bounds", func() {
	DescribeTable("FitsNumeric",
		func(raw string, fits bool) {
			Expect(validation.FitsNumeric(decimal.RequireFromString(raw), 10, 2)).To(Equal(fits))
		},
		Entry("whole hours", "12", true),
		Entry("two places", "1.25", true),
		Entry("trailing zeros", "1.500", true),
		Entry("largest value", "99999999.99", true),
		Entry("integer overflow", "100000000", false),
		Entry("extra decimal place", "1.255", false),
	)

	It("reports out-of-range hours on the DTO field", func() {
		big := decimal.RequireFromString("123456789")
		err := validation.Struct(hoursDTO{HoursSpent: &big})

		Expect(err).NotTo(BeNil())
		Expect(err.Details.(errors.ValidationErrors).Errors[0].Code).To(Equal(string(errors.ErrCodeOutOfRange)))
		Expect(err.FieldErrors()).To(HaveKeyWithValue("hours_spent", ContainSubstring("2 decimal places")))
	})

	It("rejects rounding on the record builder", func() {
		v := validation.NewValidator()
		v.Field("hours_spent", decimal.NewNullDecimal(decimal.RequireFromString("2.125"))).NonNegative().Precision(10, 2)

		err := v.Validate()

		Expect(err).NotTo(BeNil())
		Expect(err.Field()).To(Equal("hours_spent"))
	})

	It("accepts an absent value", func() {
		Expect(validation.Struct(hoursDTO{})).To(BeNil())
	})
})
