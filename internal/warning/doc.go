// Package warning emits categorised, non-fatal advisories such as
// deprecation notices. A warning records the call site it is attributed to,
// chosen by a stack level relative to the code that raises it, and is
// delivered to every registered Sink. Warnings never change control flow.
package warning
