// Package domain models fish catch records and the environmental context
// attached to them during enrichment.
//
// # Catch Records
//
// Catch documents come from the app's document store. The fields the engine
// reads are:
//
//	id                                   opaque store identifier
//	locationLatitude, locationLongitude  decimal degrees (WGS-84)
//	coordinates {lat, lon}               alternative nested form
//	location                             free text; the map picker writes "41.012345, 28.976543"
//	timestamp | dateTime                 RFC 3339 string, Unix seconds or millis, or {"seconds","nanoseconds"}
//	species, speciesLabel                species key and display label
//
// Every other field (bait, rod, reel, line, measurements, photo URL) is kept
// verbatim in [CatchRecord.Attributes] and written back out unchanged.
//
// # Region Labels
//
// A point is labeled by its nearest gazetteer center using planar distance in
// degrees, not great-circle distance. The covered coastline is small enough that
// the distortion does not change the nearest center. When the nearest center is
// farther than the fallback threshold (0.5°) and the point lies in one of the
// configured sea boxes, the sea name wins:
//
//	41.01, 28.97   -> "Türkiye - İstanbul"
//	40.70, 28.20   -> "Marmara Sea"
//	42.50, 34.00   -> "Black Sea"
//
// Equidistant centers resolve to the first one in gazetteer order. The
// thresholds and boxes were tuned by hand for the Turkish coast and live in
// gazetteer.yaml, not in code.
//
// # Lunar Phase
//
// Phases come from a lunation-index approximation with a mean synodic month of
// 29.5305882 days. Expect ±1 day of error around phase boundaries:
//
//	0 New Moon | 1 Waxing Crescent | 2 First Quarter | 3 Waxing Gibbous
//	4 Full Moon | 5 Waning Gibbous | 6 Last Quarter | 7 Waning Crescent
//
// # Unavailable Values
//
// Environmental fields are [Optional] values. An unset Optional means the value
// could not be obtained and is distinct from a genuine zero reading (0 °C, calm
// wind, flat sea). Units and placeholder text are left to the presentation layer.
package domain
