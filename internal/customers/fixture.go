package customers

import "time"

// Fixture returns the built-in roster used when no database is configured.
func Fixture() []Customer {
	return []Customer{
		{ID: "1", Name: "Alice Smith", Age: 34, Gender: "female", RiskProfile: RiskLow, AUM: 120000, LastContact: ts("2025-07-10T14:30:00Z"), Relevance: 98},
		{ID: "2", Name: "Bob Johnson", Age: 45, Gender: "male", RiskProfile: RiskMedium, AUM: 250000, LastContact: ts("2025-07-12T09:15:00Z"), Relevance: 95},
		{ID: "3", Name: "Carol Lee", Age: 29, Gender: "female", RiskProfile: RiskHigh, AUM: 80000, LastContact: ts("2025-07-15T16:45:00Z"), Relevance: 92},
		{ID: "4", Name: "David Kim", Age: 52, Gender: "male", RiskProfile: RiskMedium, AUM: 300000, LastContact: ts("2025-07-13T11:00:00Z"), Relevance: 90},
		{ID: "5", Name: "Eva Brown", Age: 41, Gender: "female", RiskProfile: RiskLow, AUM: 175000, LastContact: ts("2025-07-11T13:20:00Z"), Relevance: 88},
		{ID: "6", Name: "Frank Green", Age: 38, Gender: "male", RiskProfile: RiskHigh, AUM: 95000, LastContact: ts("2025-07-09T10:10:00Z"), Relevance: 85},
		{ID: "7", Name: "Grace Hall", Age: 27, Gender: "female", RiskProfile: RiskMedium, AUM: 60000, LastContact: ts("2025-07-14T15:00:00Z"), Relevance: 83},
		{ID: "8", Name: "Henry Young", Age: 50, Gender: "male", RiskProfile: RiskLow, AUM: 220000, LastContact: ts("2025-07-08T08:30:00Z"), Relevance: 80},
		{ID: "9", Name: "Ivy King", Age: 36, Gender: "female", RiskProfile: RiskHigh, AUM: 105000, LastContact: ts("2025-07-16T17:25:00Z"), Relevance: 78},
		{ID: "10", Name: "Jackie Lin", Age: 31, Gender: "other", RiskProfile: RiskMedium, AUM: 70000, LastContact: ts("2025-07-10T12:00:00Z"), Relevance: 75},
		{ID: "11", Name: "Kevin Scott", Age: 43, Gender: "male", RiskProfile: RiskHigh, AUM: 130000, LastContact: ts("2025-07-13T14:40:00Z"), Relevance: 72},
		{ID: "12", Name: "Laura Adams", Age: 39, Gender: "female", RiskProfile: RiskLow, AUM: 160000, LastContact: ts("2025-07-12T10:50:00Z"), Relevance: 70},
		{ID: "13", Name: "Mike Baker", Age: 48, Gender: "male", RiskProfile: RiskMedium, AUM: 210000, LastContact: ts("2025-07-11T09:35:00Z"), Relevance: 68},
		{ID: "14", Name: "Nina Perez", Age: 33, Gender: "female", RiskProfile: RiskHigh, AUM: 90000, LastContact: ts("2025-07-15T18:10:00Z"), Relevance: 65},
		{ID: "15", Name: "Oscar Reed", Age: 55, Gender: "male", RiskProfile: RiskLow, AUM: 350000, LastContact: ts("2025-07-07T07:45:00Z"), Relevance: 62},
		{ID: "16", Name: "Paula Torres", Age: 40, Gender: "female", RiskProfile: RiskMedium, AUM: 145000, LastContact: ts("2025-07-14T16:30:00Z"), Relevance: 60},
		{ID: "17", Name: "Quinn Evans", Age: 28, Gender: "other", RiskProfile: RiskHigh, AUM: 75000, LastContact: ts("2025-07-09T11:55:00Z"), Relevance: 58},
		{ID: "18", Name: "Ryan White", Age: 46, Gender: "male", RiskProfile: RiskMedium, AUM: 195000, LastContact: ts("2025-07-13T13:05:00Z"), Relevance: 55},
		{ID: "19", Name: "Sara Black", Age: 35, Gender: "female", RiskProfile: RiskLow, AUM: 110000, LastContact: ts("2025-07-12T15:15:00Z"), Relevance: 52},
		{ID: "20", Name: "Tommy Gray", Age: 42, Gender: "male", RiskProfile: RiskHigh, AUM: 125000, LastContact: ts("2025-07-11T17:50:00Z"), Relevance: 50},
	}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
