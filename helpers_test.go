package x12

import (
	"fmt"
	"strings"
)

// isaSeg is a fixed-width interchange header without its terminator. The
// sub-element separator ':' sits at byte offset 104; appending the '~'
// terminator makes the record exactly 106 characters.
const isaSeg = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *250829*1200*^*00501*000000001*0*T*:"

const gsSeg = "GS*HC*SENDER*RECEIVER*20250829*1200*1*X*005010X222A1"

// sampleBody returns the segments between ST and SE of a well-formed
// professional claim: one billing provider, one subscriber, and one claim
// for 250.00 with two service lines of 100.00 and 150.00.
func sampleBody() []string {
	return []string{
		"BHT*0019*00*REF123*20250829*1200*CH",
		"NM1*41*2*ACME BILLING*****46*12345",
		"PER*IC*JANE DOE*TE*5551234567",
		"NM1*40*2*INSURANCE CO*****46*67890",
		"HL*1**20*1",
		"NM1*85*2*GOOD HEALTH CLINIC*****XX*1234567890",
		"N3*100 MAIN ST",
		"N4*SPRINGFIELD*IL*62701",
		"REF*EI*123456789",
		"HL*2*1*22*0",
		"SBR*P*18*******MB",
		"NM1*IL*1*SMITH*JOHN*A***MI*MEM123",
		"N3*200 OAK AVE",
		"N4*SPRINGFIELD*IL*62702",
		"DMG*D8*19800115*M",
		"NM1*PR*2*MEDICARE*****PI*00120",
		"CLM*CLAIM001*250.00***11:B:1*Y*A*Y*Y",
		"HI*ABK:J449",
		"DTP*431*D8*20250810",
		"LX*1",
		"SV1*HC:99213*100.00*UN*1**11",
		"DTP*472*D8*20250812",
		"LX*2",
		"SV1*HC:85025*150.00*UN*1**11",
	}
}

// wrap encloses body segments in a consistent set of envelopes, computing
// the SE segment count from the body length.
func wrap(body []string) string {
	segments := []string{
		isaSeg,
		gsSeg,
		"ST*837*0001*005010X222A1",
	}
	segments = append(segments, body...)
	segments = append(segments,
		fmt.Sprintf("SE*%d*0001", len(body)+2),
		"GE*1*1",
		"IEA*1*000000001",
	)
	return strings.Join(segments, "~\n") + "~\n"
}

func sampleFile() string {
	return wrap(sampleBody())
}

// bodyWithout filters out segments matching the given prefix.
func bodyWithout(body []string, prefix string) []string {
	var kept []string
	for _, segment := range body {
		if strings.HasPrefix(segment, prefix) {
			continue
		}
		kept = append(kept, segment)
	}
	return kept
}

// bodyReplace swaps the first segment matching the prefix for the given
// replacement.
func bodyReplace(body []string, prefix, replacement string) []string {
	out := make([]string, len(body))
	copy(out, body)
	for i, segment := range out {
		if strings.HasPrefix(segment, prefix) {
			out[i] = replacement
			return out
		}
	}
	return out
}
