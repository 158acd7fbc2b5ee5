package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	KgPerMeal  = 0.5
	CO2ePerKg  = 2.5
	gramsPerKg = 1000.0
	poundsToKg = 0.45359237

	// MaxItemKg bounds the weight a single item may claim.
	MaxItemKg = 10000.0
)

// ImpactMetrics summarises the food rescued through a set of donations.
type ImpactMetrics struct {
	MealsSaved     int
	FoodRescuedKg  float64
	CO2PreventedKg float64
	Deliveries     int
}

// Add accumulates other into m.
func (m *ImpactMetrics) Add(other ImpactMetrics) {
	m.MealsSaved += other.MealsSaved
	m.FoodRescuedKg = round2(m.FoodRescuedKg + other.FoodRescuedKg)
	m.CO2PreventedKg = round2(m.CO2PreventedKg + other.CO2PreventedKg)
	m.Deliveries += other.Deliveries
}

var quantityRe = regexp.MustCompile(`^\s*([0-9]+(?:[.,][0-9]+)?)\s*([a-zA-Z]*)`)

// EstimateImpact converts a free-text quantity such as "5kg" or "20 meals"
// into meals, kilograms and CO2e. Unrecognised input and weights above
// MaxItemKg yield zero metrics.
func EstimateImpact(quantity string) ImpactMetrics {
	m := quantityRe.FindStringSubmatch(quantity)
	if m == nil {
		return ImpactMetrics{}
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || n <= 0 {
		return ImpactMetrics{}
	}

	var kg float64
	switch strings.ToLower(m[2]) {
	case "kg", "kgs", "kilo", "kilos", "kilogram", "kilograms":
		kg = n
	case "g", "gm", "gms", "gram", "grams":
		kg = n / gramsPerKg
	case "lb", "lbs", "pound", "pounds":
		kg = n * poundsToKg
	case "", "meal", "meals", "serving", "servings", "plate", "plates", "portion", "portions":
		kg = n * KgPerMeal
	default:
		return ImpactMetrics{}
	}
	if math.IsNaN(kg) || math.IsInf(kg, 0) || kg > MaxItemKg {
		return ImpactMetrics{}
	}

	return ImpactMetrics{
		MealsSaved:     int(math.Round(kg / KgPerMeal)),
		FoodRescuedKg:  round2(kg),
		CO2PreventedKg: round2(kg * CO2ePerKg),
	}
}

// DonationImpact sums the impact of every item in d. Only delivered or
// verified donations count as a delivery.
func DonationImpact(d *Donation) ImpactMetrics {
	var total ImpactMetrics
	for _, it := range d.Items {
		total.Add(EstimateImpact(it.Quantity))
	}
	if d.Status.IsTerminal() {
		total.Deliveries = 1
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
