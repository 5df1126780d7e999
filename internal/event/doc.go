// Package event implements typed publish/subscribe distribution of health
// events. Dispatch is synchronous and ordered by registration; listener
// panics are isolated per listener so one misbehaving subscriber cannot
// break delivery to the rest.
package event
