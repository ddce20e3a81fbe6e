// Package translate implements the ordered translation fallback chain and
// its providers.
//
// The chain tries providers in a fixed order, skipping any without a
// configured credential or installed binary, and recovers from individual
// provider failures by moving to the next. Success is an explicit Record
// carrying the winning provider's name and the attempt trail; exhaustion
// surfaces the last provider error.
package translate
