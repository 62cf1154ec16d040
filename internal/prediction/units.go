package prediction

// DefaultTrafficSeverity is substituted when a candidate carries no
// traffic severity. 0.5 is a neutral assumption, not measured data;
// estimates built on it are flagged in their audit metadata.
const DefaultTrafficSeverity = 0.5

// KilometersFromMeters converts a provider-native distance in meters to
// the kilometers the prediction service expects.
func KilometersFromMeters(meters float64) float64 {
	return meters / 1000
}

// NormalizeTrafficSeverity applies the traffic-severity default policy:
// a missing severity becomes DefaultTrafficSeverity. The second return
// value reports whether the default was substituted.
func NormalizeTrafficSeverity(severity *float64) (float64, bool) {
	if severity == nil {
		return DefaultTrafficSeverity, true
	}
	return *severity, false
}
