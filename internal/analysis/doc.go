// Package analysis looks at recorded runs in the frequency domain.
//
// A line follower that is tuned too hot weaves from side to side across the
// line. The weave shows up as a peak in the spectrum of the heading or of
// the steering differential (right minus left command); [Analyze] computes
// that spectrum and [Spectrum.Dominant] reports the peak.
package analysis
