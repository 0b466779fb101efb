package dashboard

import "time"

var testNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
