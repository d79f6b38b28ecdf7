package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/campusmarket/backend/internal/domain/billing"
	"github.com/campusmarket/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newMockDiscountCampaignRepository(t *testing.T) (*GormDiscountCampaignRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormDiscountCampaignRepository(gormDB), mock, mockDB
}

func TestGormDiscountCampaignRepository_FindByCode(t *testing.T) {
	t.Run("uppercases code before lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockDiscountCampaignRepository(t)
		defer mockDB.Close()

		campaignID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "code", "name", "discount_type", "discount_value", "is_active", "current_usage"}).
			AddRow(campaignID, "WELCOME10", "Welcome discount", "Percentage", decimal.NewFromInt(10), true, 0)

		mock.ExpectQuery(`SELECT \* FROM "discount_campaigns" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("WELCOME10", 1).
			WillReturnRows(rows)

		campaign, err := repo.FindByCode(context.Background(), "  welcome10 ")

		assert.NoError(t, err)
		assert.NotNil(t, campaign)
		assert.Equal(t, "WELCOME10", campaign.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown code", func(t *testing.T) {
		repo, mock, mockDB := newMockDiscountCampaignRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "discount_campaigns" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("NOPE", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		campaign, err := repo.FindByCode(context.Background(), "nope")

		assert.Nil(t, campaign)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDiscountCampaignRepository_IncrementUsage(t *testing.T) {
	t.Run("bumps usage while under the limit", func(t *testing.T) {
		repo, mock, mockDB := newMockDiscountCampaignRepository(t)
		defer mockDB.Close()

		campaignID := uuid.New()

		mock.ExpectExec(`UPDATE "discount_campaigns" SET "current_usage"=current_usage \+ 1 WHERE id = \$1 AND \(usage_limit IS NULL OR current_usage < usage_limit\)`).
			WithArgs(campaignID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.IncrementUsage(context.Background(), campaignID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports exhausted limit when the row exists", func(t *testing.T) {
		repo, mock, mockDB := newMockDiscountCampaignRepository(t)
		defer mockDB.Close()

		campaignID := uuid.New()

		mock.ExpectExec(`UPDATE "discount_campaigns" SET "current_usage"=current_usage \+ 1`).
			WithArgs(campaignID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "discount_campaigns" WHERE id = \$1`).
			WithArgs(campaignID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.IncrementUsage(context.Background(), campaignID)

		assert.Equal(t, shared.ErrUsageLimitReached, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports not found when the campaign is missing", func(t *testing.T) {
		repo, mock, mockDB := newMockDiscountCampaignRepository(t)
		defer mockDB.Close()

		campaignID := uuid.New()

		mock.ExpectExec(`UPDATE "discount_campaigns" SET "current_usage"=current_usage \+ 1`).
			WithArgs(campaignID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectQuery(`SELECT count\(\*\) FROM "discount_campaigns" WHERE id = \$1`).
			WithArgs(campaignID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		err := repo.IncrementUsage(context.Background(), campaignID)

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormDiscountCampaignRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements DiscountCampaignRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockDiscountCampaignRepository(t)
		defer mockDB.Close()

		var _ billing.DiscountCampaignRepository = repo
	})
}
