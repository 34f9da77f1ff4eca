// Package utils holds small conversions for loosely typed request input, such as record
// ids that clients send either as JSON strings or as JSON numbers.
package utils
