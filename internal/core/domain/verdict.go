package domain

// AvailabilityVerdict is the classifier's structured judgment on whether a
// document contains dashboard-worthy data. HasData=false is a successful,
// terminal outcome for the dashboard path, not an error.
type AvailabilityVerdict struct {
	HasData    bool     `json:"has_data"`
	Confidence int      `json:"confidence"` // 0..100
	Reason     string   `json:"reason"`
	Insights   []string `json:"insights"`
	DataTypes  []string `json:"data_types"`
}
