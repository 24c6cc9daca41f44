package web

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"garagelog/internal/models"
)

func TestMilesFormatting(t *testing.T) {
	miles := templateFuncs()["miles"].(func(int) string)

	assert.Equal(t, "0", miles(0))
	assert.Equal(t, "999", miles(999))
	assert.Equal(t, "1,000", miles(1000))
	assert.Equal(t, "145,000", miles(145000))
	assert.Equal(t, "1,234,567", miles(1234567))
	assert.Equal(t, "-123", miles(-123))
	assert.Equal(t, "-1,500", miles(-1500))
}

func TestMoneyFormatting(t *testing.T) {
	money := templateFuncs()["money"].(func(*decimal.Decimal) string)

	assert.Equal(t, "—", money(nil))

	d := decimal.RequireFromString("45.9")
	assert.Equal(t, "$45.90", money(&d))

	neg := decimal.RequireFromString("-123.45")
	assert.Equal(t, "$-123.45", money(&neg))
}

func TestMpgFormatting(t *testing.T) {
	format := templateFuncs()["mpg"].(func(*float64) string)

	assert.Equal(t, "N/A", format(nil))

	v := 26.9697
	assert.Equal(t, "27.0", format(&v))
}

func TestOptionalInt(t *testing.T) {
	n, err := optionalInt("  5000 ")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 5000, *n)

	n, err = optionalInt("")
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = optionalInt("soon")
	assert.Error(t, err)
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, optionalString("   "))

	s := optionalString(" 5W-30 ")
	require.NotNil(t, s)
	assert.Equal(t, "5W-30", *s)
}

func formContext(t *testing.T, form url.Values) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("POST", "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.Request = req
	return c
}

func TestParseTireMetaAllEmpty(t *testing.T) {
	c := formContext(t, url.Values{})
	assert.Nil(t, parseTireMeta(c))
}

func TestParseTireMetaPartial(t *testing.T) {
	c := formContext(t, url.Values{
		"tread_front_left": {"7.5"},
		"tread_rear_right": {"6"},
	})

	tm := parseTireMeta(c)
	require.NotNil(t, tm)
	require.NotNil(t, tm.FrontLeft)
	assert.InDelta(t, 7.5, *tm.FrontLeft, 1e-9)
	assert.Nil(t, tm.FrontRight)
	assert.Nil(t, tm.RearLeft)
	require.NotNil(t, tm.RearRight)
	assert.InDelta(t, 6, *tm.RearRight, 1e-9)
}

func TestVehicleFromForm(t *testing.T) {
	c := formContext(t, url.Values{
		"name":  {" Daily Driver "},
		"year":  {"2018"},
		"make":  {"Honda"},
		"model": {"Civic"},
		"vin":   {"1HGBH41JXMN109186"},
	})

	v, msg := vehicleFromForm(c)
	require.Empty(t, msg)
	assert.Equal(t, "Daily Driver", v.Name)
	assert.Equal(t, 2018, v.Year)
	require.NotNil(t, v.VIN)
	assert.Equal(t, "1HGBH41JXMN109186", *v.VIN)
}

func TestVehicleFromFormRejectsBadYear(t *testing.T) {
	c := formContext(t, url.Values{
		"name": {"Truck"},
		"year": {"18"},
	})

	_, msg := vehicleFromForm(c)
	assert.NotEmpty(t, msg)
}

func TestMaintenanceFromForm(t *testing.T) {
	c := formContext(t, url.Values{
		"vehicle_id":          {"3"},
		"description":         {"Oil change"},
		"date":                {"2024-03-15"},
		"mileage":             {"45000"},
		"cost":                {"$45.99"},
		"is_oil_change":       {"on"},
		"oil_type":            {"5W-30"},
		"oil_change_interval": {"5000"},
	})

	r, msg := maintenanceFromForm(c)
	require.Empty(t, msg)
	assert.Equal(t, int64(3), r.VehicleID)
	assert.Equal(t, "Oil change", r.Description)
	assert.Equal(t, 45000, r.Mileage)
	require.NotNil(t, r.Cost)
	assert.Equal(t, "45.99", r.Cost.String())
	assert.True(t, r.IsOilChange)
	require.NotNil(t, r.OilChangeInterval)
	assert.Equal(t, 5000, *r.OilChangeInterval)
	assert.Nil(t, r.TireMeta)
}

func TestMaintenanceFromFormRequiresDescription(t *testing.T) {
	c := formContext(t, url.Values{
		"vehicle_id": {"3"},
		"date":       {"2024-03-15"},
		"mileage":    {"45000"},
	})

	_, msg := maintenanceFromForm(c)
	assert.NotEmpty(t, msg)
}

func TestFilterVehicles(t *testing.T) {
	vehicles := []models.Vehicle{
		{ID: 1, Name: "Civic"},
		{ID: 2, Name: "Tacoma"},
		{ID: 3, Name: "Outback"},
	}

	assert.Len(t, filterVehicles(vehicles, 0), 3)

	only := filterVehicles(vehicles, 2)
	require.Len(t, only, 1)
	assert.Equal(t, "Tacoma", only[0].Name)

	assert.Empty(t, filterVehicles(vehicles, 9))
}

func TestReminderPayloadValidation(t *testing.T) {
	p := reminderPayload{VehicleID: 1, MaintenanceType: "Timing belt"}
	_, msg := p.toReminder()
	assert.NotEmpty(t, msg, "needs a mileage or date target")

	mileage := 105000
	p.TargetMileage = &mileage
	r, msg := p.toReminder()
	require.Empty(t, msg)
	assert.True(t, r.IsActive)

	p.IsRecurring = true
	_, msg = p.toReminder()
	assert.NotEmpty(t, msg, "recurring needs an interval")

	interval := 30000
	p.RecurrenceIntervalMiles = &interval
	r, msg = p.toReminder()
	require.Empty(t, msg)
	assert.True(t, r.IsRecurring)
}
