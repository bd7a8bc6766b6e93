package reports

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
)

type CalendarDay struct {
	Date    string                 `json:"date"`
	State   models.ComplianceState `json:"state"`
	Present []models.DocumentType  `json:"present"`
	Missing []models.DocumentType  `json:"missing"`
}

type CalendarComplianceResponse struct {
	OutletId string                `json:"outlet_id"`
	Year     int                   `json:"year"`
	Month    int                   `json:"month"`
	Required []models.DocumentType `json:"required"`
	Days     []CalendarDay         `json:"days"`
}

// BuildComplianceGrid classifies every day of a month against the
// required document types. presentByDate maps YYYY-MM-DD to the types
// filed that day. Days after today (in loc) are future; days with all
// required types are complete; some, partial; none, missing.
func BuildComplianceGrid(year int, month time.Month, loc *time.Location, required []models.DocumentType, presentByDate map[string][]models.DocumentType, now time.Time) []CalendarDay {
	if loc == nil {
		loc = time.UTC
	}
	first, last := utils.GetMonthGrid(year, month, loc)
	today := now.In(loc).Format("2006-01-02")

	var days []CalendarDay
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		day := CalendarDay{Date: date}

		if date > today {
			day.State = models.ComplianceFuture
			day.Missing = append(day.Missing, required...)
			days = append(days, day)
			continue
		}

		present := make(map[models.DocumentType]bool)
		for _, t := range presentByDate[date] {
			present[t] = true
		}
		for _, t := range required {
			if present[t] {
				day.Present = append(day.Present, t)
			} else {
				day.Missing = append(day.Missing, t)
			}
		}

		switch {
		case len(required) == 0 || len(day.Missing) == 0:
			day.State = models.ComplianceComplete
		case len(day.Present) == 0:
			day.State = models.ComplianceMissing
		default:
			day.State = models.CompliancePartial
		}
		days = append(days, day)
	}
	return days
}

// GetCalendarComplianceReport builds the month grid for one outlet from
// its non-rejected documents.
func GetCalendarComplianceReport(ctx context.Context, outletId string, year, month int) (*CalendarComplianceResponse, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if month < 1 || month > 12 {
		return nil, errors.New("month must be 1-12")
	}
	if !utils.CanAccessOutlet(ctx, outletId) {
		return nil, utils.ErrorForbiddenOutlet
	}

	org, err := models.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}
	outlet, err := models.GetOutlet(ctx, outletId)
	if err != nil {
		return nil, err
	}

	loc := outlet.Location()
	first, last := utils.GetMonthGrid(year, time.Month(month), loc)

	type docRow struct {
		DocumentDate time.Time
		Type         models.DocumentType
	}
	db := config.GetDB()
	var rows []docRow
	err = db.WithContext(ctx).Model(&models.Document{}).
		Select("document_date", "type").
		Where("org_id = ? AND outlet_id = ? AND status <> ?", orgId, outletId, models.DocumentStatusRejected).
		Where("document_date >= ? AND document_date < ?", first, last.AddDate(0, 0, 1)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	presentByDate := make(map[string][]models.DocumentType)
	for _, r := range rows {
		date := r.DocumentDate.In(loc).Format("2006-01-02")
		presentByDate[date] = append(presentByDate[date], r.Type)
	}

	required := org.RequiredTypes()
	return &CalendarComplianceResponse{
		OutletId: outletId,
		Year:     year,
		Month:    month,
		Required: required,
		Days:     BuildComplianceGrid(year, time.Month(month), loc, required, presentByDate, time.Now()),
	}, nil
}
