package zone

const (
	envelopeKey      = "UASZone"
	verticalLayerKey = "verticalLayer"
)

// Reshape rewrites the alternative feature layouts found in published data
// sets into the canonical one:
//
//   - the zone fields wrapped in properties.UASZone are hoisted into
//     properties, overwriting top-level members with the same name;
//
//   - properties.verticalLayer is removed and becomes geometry.layer unless the
//     geometry already has a layer member.
//
// Nothing happens unless properties and geometry are both objects. The input
// is never modified: the returned feature shares unchanged members with it but
// every rewritten object is a new map. Reshape is idempotent.
func Reshape(feature interface{}) interface{} {
	f, ok := feature.(map[string]interface{})
	if !ok {
		return feature
	}
	props, ok := f["properties"].(map[string]interface{})
	if !ok {
		return feature
	}
	geom, ok := f["geometry"].(map[string]interface{})
	if !ok {
		return feature
	}
	envelope, hasEnvelope := props[envelopeKey].(map[string]interface{})
	_, hasLayer := props[verticalLayerKey]
	if !hasEnvelope && !hasLayer {
		return feature
	}

	newProps := make(map[string]interface{}, len(props)+len(envelope))
	for k, v := range props {
		newProps[k] = v
	}
	if hasEnvelope {
		delete(newProps, envelopeKey)
		for k, v := range envelope {
			newProps[k] = v
		}
	}

	newGeom := geom
	if layer, moved := newProps[verticalLayerKey]; moved {
		delete(newProps, verticalLayerKey)
		if _, defined := geom["layer"]; !defined {
			newGeom = make(map[string]interface{}, len(geom)+1)
			for k, v := range geom {
				newGeom[k] = v
			}
			newGeom["layer"] = layer
		}
	}

	out := make(map[string]interface{}, len(f))
	for k, v := range f {
		out[k] = v
	}
	out["properties"] = newProps
	out["geometry"] = newGeom
	return out
}
