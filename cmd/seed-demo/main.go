// seed-demo creates a demo organization (Spice Kitchen Group) with two
// outlets, suppliers, reviewed documents and daily source reports so the
// dashboard and reconciliation flows have data to work with.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-demo
//
// Safe to rerun: existing rows are matched by name/date and skipped.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orgName = "Spice Kitchen Group"

type seedOutlet struct {
	Name     string
	City     string
	Country  string
	Currency string
	Timezone string
}

var seedOutlets = []seedOutlet{
	{Name: "Spice Kitchen Koramangala", City: "Bangalore", Country: "IN", Currency: "INR", Timezone: "Asia/Kolkata"},
	{Name: "Spice Kitchen Marina", City: "Dubai", Country: "AE", Currency: "AED", Timezone: "Asia/Dubai"},
}

var seedSuppliers = []models.NewSupplier{
	{Name: "Fresh Farms Produce", Category: "vegetables", Phone: "+919876543210", Force: true},
	{Name: "Gulf Seafood Trading", Category: "seafood", TaxCountry: "AE", Force: true},
	{Name: "Metro Beverages", Category: "beverages", Force: true},
}

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	if err := models.MigrateTable(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	org, err := ensureOrg(ctx, db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed organization: %v\n", err)
		os.Exit(1)
	}

	// Model helpers require org + user info in context.
	ctx = utils.SetOrgIdInContext(ctx, org.ID)
	ctx = utils.SetUserIdInContext(ctx, "seed")
	ctx = utils.SetUserNameInContext(ctx, "Seed")
	ctx = utils.SetIsAdminInContext(ctx, true)

	outlets, err := ensureOutlets(ctx, db, org)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed outlets: %v\n", err)
		os.Exit(1)
	}

	for _, s := range seedSuppliers {
		input := s
		if err := ensureSupplier(ctx, db, org.ID, &input); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed supplier %q: %v\n", s.Name, err)
			os.Exit(1)
		}
	}

	if err := ensureRateSnapshot(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed rate snapshot: %v\n", err)
		os.Exit(1)
	}

	// Two days of reviewed documents + source reports for the first outlet
	// so detection and insights have something to chew on.
	primary := outlets[0]
	for daysAgo := 2; daysAgo >= 1; daysAgo-- {
		day := time.Now().UTC().AddDate(0, 0, -daysAgo)
		date := day.Format("2006-01-02")

		if err := ensureSalesDocument(ctx, db, org.ID, primary, day); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed sales document for %s: %v\n", date, err)
			os.Exit(1)
		}
		if err := ensureVendorDocument(ctx, db, org.ID, primary, day); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed vendor document for %s: %v\n", date, err)
			os.Exit(1)
		}

		// Bank figure deliberately disagrees on the older day so the demo
		// produces one discrepancy.
		bank := decimal.NewFromInt(52000)
		if daysAgo == 2 {
			bank = decimal.NewFromInt(49500)
		}
		if _, err := models.UpsertSourceReport(ctx, &models.NewSourceReport{
			OutletId: primary.ID,
			Date:     date,
			Source:   models.FigureSourceBank,
			Amount:   bank,
			Note:     "seed bank feed",
		}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed bank report for %s: %v\n", date, err)
			os.Exit(1)
		}
		if _, err := models.UpsertSourceReport(ctx, &models.NewSourceReport{
			OutletId: primary.ID,
			Date:     date,
			Source:   models.FigureSourceManual,
			Amount:   decimal.NewFromInt(52000),
			Note:     "seed manager closing figure",
		}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed manual report for %s: %v\n", date, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Seeded org %q (id=%s) with %d outlets, %d suppliers, demo documents and source reports.\n",
		org.Name, org.ID, len(outlets), len(seedSuppliers))
	fmt.Println("Commit the seeded documents via POST /api/documents/:id/commit to populate the ledger.")
}

func ensureOrg(ctx context.Context, db *gorm.DB) (*models.Organization, error) {
	var existing models.Organization
	err := db.WithContext(ctx).Where("name = ?", orgName).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return models.CreateOrganization(ctx, &models.NewOrganization{
		Name:                orgName,
		BaseCurrency:        "INR",
		Timezone:            "Asia/Kolkata",
		Country:             "IN",
		RequiredReportTypes: "sales_report,vendor_invoice",
	})
}

func ensureOutlets(ctx context.Context, db *gorm.DB, org *models.Organization) ([]*models.Outlet, error) {
	var out []*models.Outlet
	for _, o := range seedOutlets {
		var existing models.Outlet
		err := db.WithContext(ctx).Where("org_id = ? AND name = ?", org.ID, o.Name).First(&existing).Error
		if err == nil {
			out = append(out, &existing)
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		created, err := models.CreateOutlet(ctx, &models.NewOutlet{
			Name:     o.Name,
			City:     o.City,
			Country:  o.Country,
			Currency: o.Currency,
			Timezone: o.Timezone,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func ensureSupplier(ctx context.Context, db *gorm.DB, orgId string, input *models.NewSupplier) error {
	var existing models.Supplier
	err := db.WithContext(ctx).Where("org_id = ? AND name = ?", orgId, input.Name).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	_, _, err = models.CreateSupplier(ctx, input)
	return err
}

// ensureRateSnapshot stores today's fallback table so commits can convert
// currencies without the live provider.
func ensureRateSnapshot(ctx context.Context, db *gorm.DB) error {
	today := time.Now().UTC().Format("2006-01-02")
	var existing models.RateSnapshot
	err := db.WithContext(ctx).Where("date = ?", today).First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	ratesJSON, err := json.Marshal(models.FallbackRates())
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(&models.RateSnapshot{
		Date:       today,
		Base:       "USD",
		RatesJSON:  string(ratesJSON),
		IsFallback: true,
	}).Error
}

func ensureSalesDocument(ctx context.Context, db *gorm.DB, orgId string, outlet *models.Outlet, day time.Time) error {
	date := day.Format("2006-01-02")
	fileName := fmt.Sprintf("sales_%s.xlsx", date)

	payload := models.ExtractedPayload{
		Currency:   outlet.Currency,
		Total:      "52000",
		Confidence: 0.97,
		Rows: []models.ExtractedRow{
			{Date: date, Amount: "30000", PaymentMethod: "card", Channel: "dine-in"},
			{Date: date, Amount: "14000", PaymentMethod: "upi", Channel: "zomato"},
			{Date: date, Amount: "8000", PaymentMethod: "cash", Channel: "swiggy"},
		},
	}
	return ensureDocument(ctx, db, orgId, outlet, day, models.DocumentTypeSalesReport, fileName, payload)
}

func ensureVendorDocument(ctx context.Context, db *gorm.DB, orgId string, outlet *models.Outlet, day time.Time) error {
	date := day.Format("2006-01-02")
	fileName := fmt.Sprintf("invoice_fresh_farms_%s.pdf", date)

	payload := models.ExtractedPayload{
		Currency:   outlet.Currency,
		Total:      "16400",
		Confidence: 0.91,
		Rows: []models.ExtractedRow{
			{Date: date, Amount: "9400", ItemName: "Vegetables crate", ItemCategory: "produce", Quantity: "12"},
			{Date: date, Amount: "7000", ItemName: "Paneer block", ItemCategory: "dairy", Quantity: "20"},
		},
	}
	return ensureDocument(ctx, db, orgId, outlet, day, models.DocumentTypeVendorInvoice, fileName, payload)
}

func ensureDocument(ctx context.Context, db *gorm.DB, orgId string, outlet *models.Outlet, day time.Time,
	docType models.DocumentType, fileName string, payload models.ExtractedPayload) error {
	var existing models.Document
	err := db.WithContext(ctx).
		Where("org_id = ? AND outlet_id = ? AND type = ? AND file_name = ?", orgId, outlet.ID, docType, fileName).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	extracted, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	id := uuid.NewString()
	doc := models.Document{
		ID:           id,
		OrgId:        orgId,
		OutletId:     outlet.ID,
		Type:         docType,
		Status:       models.DocumentStatusProcessed,
		DocumentDate: day,
		FileName:     fileName,
		ContentType:  "application/octet-stream",
		ObjectKey:    fmt.Sprintf("%s/documents/%s/%s_%s", orgId, outlet.ID, id, fileName),
		// Deterministic stand-in hash; seeded files have no real bytes.
		ContentHash: fmt.Sprintf("%064x", day.Unix()+int64(len(fileName))),
		Extracted:   string(extracted),
	}
	return db.WithContext(ctx).Create(&doc).Error
}
