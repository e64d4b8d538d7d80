package alerts

import (
	"encoding/json"
	"time"
)

// LimitAlert is the event published when a limit's accrued spending crosses
// one of the alert thresholds (50, 75, 90, 100 percent of the ceiling).
type LimitAlert struct {
	UserID      uint      `json:"user_id"`
	LimitID     uint      `json:"limit_id"`
	LimitName   string    `json:"limit_name"`
	Threshold   int       `json:"threshold"`
	PercentUsed float64   `json:"percent_used"`
	Accrued     int64     `json:"accrued"`
	Ceiling     int64     `json:"ceiling"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToJSON converts the alert to JSON bytes
func (a *LimitAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// LimitAlertFromJSON creates an alert from JSON bytes
func LimitAlertFromJSON(data []byte) (*LimitAlert, error) {
	var a LimitAlert
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
