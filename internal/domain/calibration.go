package domain

import "errors"

// TestType identifies one of the three calibration field tests.
type TestType string

const (
	TestSwim400   TestType = "swim_400"
	TestBike20Min TestType = "bike_20min"
	TestRunMile   TestType = "run_mile"
)

// ErrUnknownTestType rejects unrecognized calibration submissions.
var ErrUnknownTestType = errors.New("unknown calibration test type")

// ErrInvalidTestResult rejects non-positive raw results.
var ErrInvalidTestResult = errors.New("calibration result must be positive")

// ApplyTestResult folds a raw calibration result into a baselines row and
// returns the derived value. Raw units: seconds for the swim and run time
// trials, average watts for the bike test.
func ApplyTestResult(b *Baselines, test TestType, raw float64) (float64, error) {
	if raw <= 0 {
		return 0, ErrInvalidTestResult
	}
	switch test {
	case TestSwim400:
		css := CalculateCSS(raw)
		b.CriticalSwimSpeed = &css
		return css, nil
	case TestBike20Min:
		ftp := CalculateFTP(raw)
		b.FTP = &ftp
		return float64(ftp), nil
	case TestRunMile:
		pace := CalculateThresholdPace(raw)
		b.ThresholdRunPace = &pace
		return float64(pace), nil
	default:
		return 0, ErrUnknownTestType
	}
}
