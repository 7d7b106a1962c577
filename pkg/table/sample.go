package table

// SampleSnapshot is the built-in customer review table shown when no
// table was given or the warehouse could not be read.
func SampleSnapshot() *Snapshot {
	return &Snapshot{
		Columns: []string{"customer_id", "state", "review", "review_score"},
		Rows: []Row{
			{"cust_1", "CA", "Great product!", int64(5)},
			{"cust_2", "NY", "Very satisfied", int64(4)},
			{"cust_3", "TX", "Could be better", int64(3)},
			{"cust_4", "FL", "Not what I expected", int64(2)},
			{"cust_5", "IL", "Excellent service", int64(5)},
		},
	}
}
