// Package dtmf implements dual-tone multi-frequency keypad signalling:
// the keypad frequency table, tone synthesis, fixed-cadence framing of
// captured audio and FFT based symbol detection.
//
// Samples are float64 values normalized to [-1, 1]. Encode and decode must
// agree on the same Cadence; a mismatch is not detected and shows up as
// wrong or unresolved symbols.
package dtmf
