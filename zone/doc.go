/*
Package zone validates and normalizes ED-318 UAS Geographical Zone data sets.

Input is a generic JSON tree as produced by encoding/json: objects are
map[string]interface{}, arrays are []interface{}, numbers are float64. The
decoder walks the tree once and returns either a fully typed object graph or a
*ValidationError listing every issue with its path, e.g.

	features[3].properties.zoneAuthority[0].purpose: InvalidValue: ...

Two presets exist. ModeStrict expects normalized input: code values must use
their exact spelling and case, list members must be lists and unknown fields
are errors. ModeCoercive first uppercases codes, lowercases units, wraps
scalars into lists, reads "" as absent, translates the legacy AUTHORISATION
spelling and drops unknown fields with a warning. Individual behaviours can be
toggled through Options.

Objects report all of their issues at once. Inside a FeatureCollection the
features are validated in order and, unless Options.CollectAll is set, the
first failing feature stops validation. Features published with the zone
fields wrapped in a UASZone member, or with the vertical layer kept in the
properties, are rewritten by Reshape before validation.

Upper and lower limits of a vertical layer are not compared by default; see
Options.CheckLayerOrder.
*/
package zone
