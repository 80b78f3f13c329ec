package filters

// RunLength decodes RunLengthDecode data. A length byte below 128 is
// followed by length+1 literal bytes, 128 ends the data, and anything
// above 128 repeats the next byte 257-length times. Truncated input
// yields whatever was decoded before the cut.
func RunLength(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data)*2)

	for i := 0; i < len(data); {
		length := int(data[i])
		i++

		switch {
		case length < 128:
			end := i + length + 1
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[i:end]...)
			i = end
		case length == 128:
			return out, nil
		default:
			if i >= len(data) {
				return out, nil
			}
			for n := 0; n < 257-length; n++ {
				out = append(out, data[i])
			}
			i++
		}
	}

	return out, nil
}

// RunLengthEncode produces RunLengthDecode data terminated by the
// end-of-data byte.
func RunLengthEncode(data []byte) []byte {
	var out []byte
	for i := 0; i < len(data); {
		run := 1
		for i+run < len(data) && run < 128 && data[i+run] == data[i] {
			run++
		}
		if run > 1 {
			out = append(out, byte(257-run), data[i])
			i += run
			continue
		}

		start := i
		for i < len(data) && i-start < 128 {
			if i+1 < len(data) && data[i+1] == data[i] {
				break
			}
			i++
		}
		if i == start {
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, data[start:i]...)
	}
	return append(out, 128)
}
