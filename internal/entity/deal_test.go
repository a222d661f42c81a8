package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/flowtada/crm/internal/entity"
)

func TestNewDealDefaults(t *testing.T) {
	close := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	deal, err := entity.NewDeal("cust-1", "Annual contract", 1250_00, close)

	assert.NoError(t, err)
	assert.Equal(t, entity.DealStageProspecting, deal.Stage)
	assert.Equal(t, 10, deal.Probability)
	assert.Equal(t, "1250.00", deal.ValueDisplay())
}

func TestNewDealRejectsBadInput(t *testing.T) {
	close := time.Now()

	_, err := entity.NewDeal("", "title", 100, close)
	assert.Error(t, err)

	_, err = entity.NewDeal("cust-1", "", 100, close)
	assert.Error(t, err)

	_, err = entity.NewDeal("cust-1", "title", -1, close)
	assert.Error(t, err)
}

func TestDealValidate(t *testing.T) {
	deal, err := entity.NewDeal("cust-1", "title", 100, time.Now())
	assert.NoError(t, err)

	deal.Stage = "imaginary"
	assert.Error(t, deal.Validate())

	deal.Stage = entity.DealStageClosedWon
	deal.Probability = 101
	assert.Error(t, deal.Validate())

	deal.Probability = 100
	assert.NoError(t, deal.Validate())
}
