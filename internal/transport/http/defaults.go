package httptransport

import (
	"context"

	"kycdid/internal/kyc/demo"
	"kycdid/internal/kyc/models"
	"kycdid/pkg/platform/privacy"
	"kycdid/pkg/requestcontext"
)

// applyDefaults fills the fields a partial application may omit. Personal
// and financial fields fall back to the demo applicant one by one; consent
// network metadata falls back to the calling request. The core never
// defaults anything itself.
func applyDefaults(ctx context.Context, app *models.Application, regulated bool) {
	p, dp := &app.PersonalInfo, demo.PersonalInfo()
	fill(&p.FirstName, dp.FirstName)
	fill(&p.LastName, dp.LastName)
	fill(&p.DateOfBirth, dp.DateOfBirth)
	fill(&p.Nationality, dp.Nationality)
	fill(&p.PhoneNumber, dp.PhoneNumber)
	fill(&p.Email, dp.Email)
	fill(&p.Gender, dp.Gender)
	fill(&p.PlaceOfBirth, dp.PlaceOfBirth)

	f, df := &app.FinancialInfo, demo.FinancialInfo()
	fill(&f.IncomeRange, df.IncomeRange)
	fill(&f.EmploymentStatus, df.EmploymentStatus)
	fill(&f.SourceOfFunds, df.SourceOfFunds)

	c := &app.Consents
	fill(&c.IPAddress, requestcontext.ClientIP(ctx))
	fill(&c.UserAgent, requestcontext.UserAgent(ctx))
	if regulated && c.IPAddress != "" {
		c.IPAddress = privacy.AnonymizeIP(c.IPAddress)
	}
}

func fill(dst *string, fallback string) {
	if *dst == "" {
		*dst = fallback
	}
}
