package service_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/airotrack/fieldops/internal"
	"github.com/airotrack/fieldops/internal/service"
)

var _ = Describe("SaveServiceDTO", func() {
	valid := func() service.SaveServiceDTO {
		return service.SaveServiceDTO{
			Date:         "2024-01-08",
			CustomerName: "ALBERTO MAIA ALVES",
			Type:         service.TypeInstall,
			Company:      service.CompanyAiroclube,
			Status:       service.StatusCompleted,
		}
	}

	codeOf := func(err error) internal.ErrorCode {
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		return appErr.Code
	}

	It("accepts a complete payload", func() {
		Expect(valid().Validate()).To(Succeed())
	})

	It("flags a missing date as a missing field", func() {
		dto := valid()
		dto.Date = ""
		Expect(codeOf(dto.Validate())).To(Equal(internal.ErrCodeMissingField))
	})

	It("flags a malformed date distinctly", func() {
		dto := valid()
		dto.Date = "08/01/2024"
		Expect(codeOf(dto.Validate())).To(Equal(internal.ErrCodeInvalidDate))
	})

	It("flags a missing customer name as a missing field", func() {
		dto := valid()
		dto.CustomerName = ""
		Expect(codeOf(dto.Validate())).To(Equal(internal.ErrCodeMissingField))
	})

	It("requires a reason for a cancelled service", func() {
		dto := valid()
		dto.Status = service.StatusCancelled
		dto.CancelledBy = service.CancelledByCustomer

		Expect(errors.Is(dto.Validate(), internal.ErrMissingCancellation)).To(BeTrue())
	})

	It("requires a known cancelling party", func() {
		dto := valid()
		dto.Status = service.StatusCancelled
		dto.CancellationReason = "Cliente não estava no local"
		dto.CancelledBy = "SOMEONE"

		Expect(errors.Is(dto.Validate(), internal.ErrMissingCancellation)).To(BeTrue())
	})

	It("accepts a fully described cancellation", func() {
		dto := valid()
		dto.Status = service.StatusCancelled
		dto.CancellationReason = "Cliente não estava no local"
		dto.CancelledBy = service.CancelledByTechnician

		Expect(dto.Validate()).To(Succeed())
	})

	It("requires the removed model alongside a removed IMEI", func() {
		dto := valid()
		dto.RemovedIMEI = "333333"

		Expect(codeOf(dto.Validate())).To(Equal(internal.ErrCodeMissingField))
	})

	It("rejects an unknown company", func() {
		dto := valid()
		dto.Company = "Outra"
		Expect(codeOf(dto.Validate())).To(Equal(internal.ErrCodeValidationFailed))
	})
})
