// Package seed populates a development database with a demo client, one
// location per pass type and a week of shifts, so an invoice can be generated
// right after `paswerk migrate && paswerk seed`.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	customerdomain "github.com/paswerklabs/paswerk/internal/customer/domain"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
	shiftdomain "github.com/paswerklabs/paswerk/internal/shift/domain"
)

const (
	demoClientName = "Gemeente Haarlem"
	demoClientKVK  = "34098235"
)

// EnsureDemoData seeds the demo client with a location and rate cards.
// Re-running is a no-op.
func EnsureDemoData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		client, err := ensureClientTx(ctx, tx, node)
		if err != nil {
			return err
		}
		location, err := ensureLocationTx(ctx, tx, node, client.ID)
		if err != nil {
			return err
		}
		if err := ensureRateTableTx(ctx, tx, node, location.ID, ratesdomain.PassTypeBlue, 20); err != nil {
			return err
		}
		if err := ensureRateTableTx(ctx, tx, node, location.ID, ratesdomain.PassTypeGrey, 24); err != nil {
			return err
		}
		return ensureShiftsTx(ctx, tx, node, location.ID)
	})
}

func ensureClientTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (customerdomain.Client, error) {
	var client customerdomain.Client
	err := tx.WithContext(ctx).Where("name = ?", demoClientName).First(&client).Error
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return client, err
	}

	client = customerdomain.Client{
		ID:      node.Generate().Int64(),
		Name:    demoClientName,
		KVK:     demoClientKVK,
		Address: "Grote Markt 2, 2011 RD Haarlem",
		Phone:   "023-5113000",
		Email:   "inkoop@haarlem.nl",
	}
	if err := tx.WithContext(ctx).Create(&client).Error; err != nil {
		return client, err
	}
	return client, nil
}

func ensureLocationTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, clientID int64) (customerdomain.Location, error) {
	var location customerdomain.Location
	err := tx.WithContext(ctx).Where("client_id = ?", clientID).First(&location).Error
	if err == nil {
		return location, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return location, err
	}

	location = customerdomain.Location{
		ID:       node.Generate().Int64(),
		ClientID: clientID,
		Name:     "Stadskantoor Zijlvest",
		Address:  "Zijlvest 39, 2011 VB Haarlem",
	}
	if err := tx.WithContext(ctx).Create(&location).Error; err != nil {
		return location, err
	}
	return location, nil
}

func ensureRateTableTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, locationID int64, passType ratesdomain.PassType, base float64) error {
	var count int64
	err := tx.WithContext(ctx).Model(&ratesdomain.RateTable{}).
		Where("location_id = ? AND pass_type = ? AND active = ?", locationID, passType, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	table := ratesdomain.TableFromBase(base)
	table.ID = node.Generate()
	table.LocationID = locationID
	table.PassType = passType
	table.Active = true
	return tx.WithContext(ctx).Create(&table).Error
}

func ensureShiftsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, locationID int64) error {
	var count int64
	err := tx.WithContext(ctx).Model(&shiftdomain.Shift{}).
		Where("location_id = ?", locationID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// A week of shifts in the previous month touching every weekday tier.
	now := time.Now().UTC()
	monday := startOfWeek(now.AddDate(0, -1, 0))

	type plannedShift struct {
		dayOffset int
		start     string
		end       string
	}
	planned := []plannedShift{
		{0, "09:00", "17:00"},
		{1, "18:00", "23:00"},
		{2, "22:00", "06:00"},
		{3, "09:00", "17:00"},
		{4, "14:00", "22:00"},
		{5, "10:00", "16:00"},
		{6, "09:00", "13:00"},
	}

	for i, p := range planned {
		shift := shiftdomain.Shift{
			ID:         node.Generate(),
			LocationID: locationID,
			EmployeeID: int64(100 + i),
			Date:       monday.AddDate(0, 0, p.dayOffset),
			StartTime:  p.start,
			EndTime:    p.end,
		}
		if err := tx.WithContext(ctx).Create(&shift).Error; err != nil {
			return err
		}
	}
	return nil
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
