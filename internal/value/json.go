package value

// ToJSON converts v to the plain Go shape encoding/json and jsonschema
// validators expect (map[string]interface{}, []interface{}, string,
// float64, bool, or nil) — used by internal/typecheck to validate a typed
// #declare's value against its compiled schema ahead of Alloc.
func ToJSON(v Value, mem Resolver) (interface{}, error) {
	switch t := v.(type) {
	case Text:
		return string(t), nil
	case Number:
		return float64(t), nil
	case Boolean:
		return bool(t), nil
	case Array:
		out := make([]interface{}, len(t))
		for i, elem := range t {
			j, err := ToJSON(elem, mem)
			if err != nil {
				return nil, err
			}
			out[i] = j
		}
		return out, nil
	case Object:
		out := make(map[string]interface{}, len(t))
		for _, p := range t {
			key, err := p.Key.eval(mem, 0)
			if err != nil {
				return nil, err
			}
			val, err := ToJSON(p.Val, mem)
			if err != nil {
				return nil, err
			}
			out[key] = val
		}
		return out, nil
	case Quote:
		return ToJSON(t.Inner, mem)
	case Glue:
		s, err := t.eval(mem, 0)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		if IsNull(v) {
			return nil, nil
		}
		return v.eval(mem, 0)
	}
}
