package domain

// ZoneCount is the number of training zones in the fixed intensity model.
const ZoneCount = 6

// zoneRange is a percentage band applied against a baseline value.
type zoneRange struct {
	Min float64
	Max float64
}

// mid returns the midpoint of the band, the value used for concrete targets.
func (r zoneRange) mid() float64 {
	return (r.Min + r.Max) / 2
}

type zoneRanges struct {
	FTP  zoneRange // percent of functional threshold power
	Pace zoneRange // percent of threshold pace (higher percent = faster pace)
	HR   zoneRange // percent of max heart rate
}

// zoneTable holds the fixed percentage bands for the six zones. There is no
// configuration surface here; athletes are tuned through their baselines.
var zoneTable = map[int]zoneRanges{
	1: {FTP: zoneRange{0, 55}, Pace: zoneRange{70, 75}, HR: zoneRange{50, 60}},
	2: {FTP: zoneRange{56, 75}, Pace: zoneRange{76, 85}, HR: zoneRange{60, 70}},
	3: {FTP: zoneRange{76, 90}, Pace: zoneRange{86, 95}, HR: zoneRange{70, 80}},
	4: {FTP: zoneRange{91, 105}, Pace: zoneRange{96, 105}, HR: zoneRange{80, 90}},
	5: {FTP: zoneRange{106, 120}, Pace: zoneRange{106, 115}, HR: zoneRange{90, 95}},
	6: {FTP: zoneRange{121, 150}, Pace: zoneRange{116, 130}, HR: zoneRange{95, 100}},
}

// clampZone normalizes out-of-range zone values onto the table.
func clampZone(zone int) int {
	if zone < 1 {
		return 1
	}
	if zone > ZoneCount {
		return ZoneCount
	}
	return zone
}
