package format

// SpecialNames lists the names accepted by Special, in table order.
var SpecialNames = []string{
	"+zero", "-zero", "+inf", "-inf",
	"qnan", "+qnan", "-qnan",
	"snan", "+snan", "-snan",
}

// Special returns the bit pattern of a named special value. Signaling NaNs
// use the smallest payload (fraction = 1).
func (f Format) Special(name string) (uint64, bool) {
	allOnes := f.ExpAllOnes() << f.mantBits
	quiet := uint64(1) << (f.mantBits - 1)
	switch name {
	case "+zero":
		return 0, true
	case "-zero":
		return f.SignBit(), true
	case "+inf":
		return allOnes, true
	case "-inf":
		return f.SignBit() | allOnes, true
	case "qnan", "+qnan":
		return allOnes | quiet, true
	case "-qnan":
		return f.SignBit() | allOnes | quiet, true
	case "snan", "+snan":
		return allOnes | 1, true
	case "-snan":
		return f.SignBit() | allOnes | 1, true
	default:
		return 0, false
	}
}

// MustSpecial is Special for names known at compile time. It panics on an
// unknown name.
func (f Format) MustSpecial(name string) uint64 {
	v, ok := f.Special(name)
	if !ok {
		panic("format: unknown special value " + name)
	}
	return v
}
