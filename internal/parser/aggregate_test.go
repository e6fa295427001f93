package parser

import (
	"testing"

	"github.com/parent-node-finder/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	records := []models.Record{
		{Identifier: "aa:bb:cc:dd:ee:ff", Rate: 10, Signal: -40, Parent: "NA"},
		{Identifier: "11:22:33:44:55:66", Rate: 1, Signal: -70, Parent: "aa:bb:cc:dd:ee:ff"},
		{Identifier: "AA:BB:CC:DD:EE:FF", Rate: 20, Signal: -51, Parent: "11:22:33:44:55:66"},
	}

	got := Aggregate(records)
	require.Len(t, got, 2)

	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got[0].Identifier)
	assert.Equal(t, 15.0, got[0].Rate)
	assert.Equal(t, -45.5, got[0].Signal)
	assert.Equal(t, "NA", got[0].Parent, "parent comes from the first observation")
	assert.Equal(t, 2, got[0].Samples)

	assert.Equal(t, "11:22:33:44:55:66", got[1].Identifier)
	assert.Equal(t, 1, got[1].Samples)

	// inputs are left untouched
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", records[2].Identifier)
}

func TestAggregate_RoundsToTwoDecimals(t *testing.T) {
	records := []models.Record{
		{Identifier: "aa:bb:cc:dd:ee:ff", Rate: 1, Signal: -40},
		{Identifier: "aa:bb:cc:dd:ee:ff", Rate: 1, Signal: -41},
		{Identifier: "aa:bb:cc:dd:ee:ff", Rate: 2, Signal: -41},
	}

	got := Aggregate(records)
	require.Len(t, got, 1)
	assert.Equal(t, 1.33, got[0].Rate)
	assert.Equal(t, -40.67, got[0].Signal)
}

func TestAggregate_OrderIndependentMeans(t *testing.T) {
	a := models.Record{Identifier: "aa:bb:cc:dd:ee:ff", Rate: 3.3, Signal: -60, Parent: "first"}
	b := models.Record{Identifier: "aa:bb:cc:dd:ee:ff", Rate: 7.1, Signal: -20, Parent: "second"}

	ab := Aggregate([]models.Record{a, b})
	ba := Aggregate([]models.Record{b, a})

	assert.Equal(t, ab[0].Rate, ba[0].Rate)
	assert.Equal(t, ab[0].Signal, ba[0].Signal)
	assert.Equal(t, "first", ab[0].Parent)
	assert.Equal(t, "second", ba[0].Parent)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
}
