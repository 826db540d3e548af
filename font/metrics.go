package font

import "golang.org/x/text/encoding/charmap"

// Widths are in 1000ths of em, taken from the Adobe Font Metrics files for
// the Standard 14 fonts. The ASCII tables cover U+0020 through U+007E.

// helveticaASCII holds Helvetica (and Helvetica-Oblique) widths.
var helveticaASCII = [95]float64{
	278, 278, 355, 556, 556, 889, 667, 191, // space ! " # $ % & '
	333, 333, 389, 584, 278, 333, 278, 278, // ( ) * + , - . /
	556, 556, 556, 556, 556, 556, 556, 556, // 0-7
	556, 556, 278, 278, 584, 584, 584, 556, // 8 9 : ; < = > ?
	1015, 667, 667, 722, 722, 667, 611, 778, // @ A-G
	722, 278, 500, 667, 556, 833, 722, 778, // H-O
	667, 778, 722, 667, 611, 722, 667, 944, // P-W
	667, 667, 611, 278, 278, 278, 469, 556, // X Y Z [ \ ] ^ _
	333, 556, 556, 500, 556, 556, 278, 556, // ` a-g
	556, 222, 222, 500, 222, 833, 556, 556, // h-o
	556, 556, 333, 500, 278, 556, 500, 722, // p-w
	500, 500, 500, 334, 260, 334, 584, // x y z { | } ~
}

// helveticaBoldASCII holds Helvetica-Bold (and Helvetica-BoldOblique) widths.
var helveticaBoldASCII = [95]float64{
	278, 333, 474, 556, 556, 889, 722, 238, // space ! " # $ % & '
	333, 333, 389, 584, 278, 333, 278, 278, // ( ) * + , - . /
	556, 556, 556, 556, 556, 556, 556, 556, // 0-7
	556, 556, 333, 333, 584, 584, 584, 611, // 8 9 : ; < = > ?
	975, 722, 722, 722, 722, 667, 611, 778, // @ A-G
	722, 278, 556, 722, 611, 833, 722, 778, // H-O
	667, 778, 722, 667, 611, 722, 667, 944, // P-W
	667, 667, 611, 333, 278, 333, 584, 556, // X Y Z [ \ ] ^ _
	333, 556, 611, 556, 611, 556, 333, 611, // ` a-g
	611, 278, 278, 556, 278, 889, 611, 611, // h-o
	611, 611, 389, 556, 333, 611, 556, 778, // p-w
	556, 556, 500, 389, 280, 389, 584, // x y z { | } ~
}

// The upper tables cover WinAnsiEncoding codes 0x80 through 0xFF. Zero
// marks a code with no glyph.

// helveticaUpper holds Helvetica (and Helvetica-Oblique) widths.
var helveticaUpper = [128]float64{
	556, 0, 222, 556, 333, 1000, 556, 556, // Euro - quotesinglbase florin quotedblbase ellipsis dagger daggerdbl
	333, 1000, 667, 333, 1000, 0, 611, 0, // circumflex perthousand Scaron guilsinglleft OE - Zcaron -
	0, 222, 222, 333, 333, 350, 556, 1000, // - quoteleft quoteright quotedblleft quotedblright bullet endash emdash
	333, 1000, 500, 333, 944, 0, 500, 667, // tilde trademark scaron guilsinglright oe - zcaron Ydieresis
	278, 333, 556, 556, 556, 556, 260, 556, // nbsp exclamdown cent sterling currency yen brokenbar section
	333, 737, 370, 556, 584, 333, 737, 333, // dieresis copyright ordfeminine guillemotleft logicalnot hyphen registered macron
	400, 584, 333, 333, 333, 556, 537, 278, // degree plusminus twosuperior threesuperior acute mu paragraph periodcentered
	333, 333, 365, 556, 834, 834, 834, 611, // cedilla onesuperior ordmasculine guillemotright onequarter onehalf threequarters questiondown
	667, 667, 667, 667, 667, 667, 1000, 722, // Agrave-Aring AE Ccedilla
	667, 667, 667, 667, 278, 278, 278, 278, // Egrave-Edieresis Igrave-Idieresis
	722, 722, 778, 778, 778, 778, 778, 584, // Eth Ntilde Ograve-Odieresis multiply
	778, 722, 722, 722, 722, 667, 667, 611, // Oslash Ugrave-Udieresis Yacute Thorn germandbls
	556, 556, 556, 556, 556, 556, 889, 500, // agrave-aring ae ccedilla
	556, 556, 556, 556, 278, 278, 278, 278, // egrave-edieresis igrave-idieresis
	556, 556, 556, 556, 556, 556, 556, 584, // eth ntilde ograve-odieresis divide
	611, 556, 556, 556, 556, 500, 556, 500, // oslash ugrave-udieresis yacute thorn ydieresis
}

// helveticaBoldUpper holds Helvetica-Bold (and Helvetica-BoldOblique) widths.
var helveticaBoldUpper = [128]float64{
	556, 0, 278, 556, 500, 1000, 556, 556,
	333, 1000, 667, 333, 1000, 0, 611, 0,
	0, 278, 278, 500, 500, 350, 556, 1000,
	333, 1000, 556, 333, 944, 0, 500, 667,
	278, 333, 556, 556, 556, 556, 280, 556,
	333, 737, 370, 556, 584, 333, 737, 333,
	400, 584, 333, 333, 333, 611, 556, 278,
	333, 333, 365, 556, 834, 834, 834, 611,
	722, 722, 722, 722, 722, 722, 1000, 722,
	667, 667, 667, 667, 278, 278, 278, 278,
	722, 722, 778, 778, 778, 778, 778, 584,
	778, 722, 722, 722, 722, 667, 667, 611,
	556, 556, 556, 556, 556, 556, 889, 556,
	556, 556, 556, 556, 278, 278, 278, 278,
	611, 611, 611, 611, 611, 611, 611, 584,
	611, 611, 611, 611, 611, 556, 611, 556,
}

// metrics describes the widths of one standard font.
type metrics struct {
	widths       map[rune]float64
	defaultWidth float64
}

// buildMetrics expands the ASCII and upper WinAnsi tables into a width map
// keyed by the Unicode character each code shows.
func buildMetrics(ascii [95]float64, upper [128]float64, defaultWidth float64) metrics {
	m := metrics{
		widths:       make(map[rune]float64, len(ascii)+len(upper)),
		defaultWidth: defaultWidth,
	}
	for i, w := range ascii {
		m.widths[rune(32+i)] = w
	}
	for i, w := range upper {
		if w == 0 {
			continue
		}
		m.widths[charmap.Windows1252.DecodeByte(byte(0x80+i))] = w
	}
	return m
}

// monospaced returns metrics where every glyph has the same width.
func monospaced(width float64) metrics {
	return metrics{widths: map[rune]float64{}, defaultWidth: width}
}

// standardFonts maps base font names to their metrics. Only the Latin text
// faces that render through WinAnsiEncoding are listed; Times, Symbol and
// ZapfDingbats are not offered.
var standardFonts = map[string]metrics{
	"Helvetica":             buildMetrics(helveticaASCII, helveticaUpper, 556),
	"Helvetica-Oblique":     buildMetrics(helveticaASCII, helveticaUpper, 556),
	"Helvetica-Bold":        buildMetrics(helveticaBoldASCII, helveticaBoldUpper, 611),
	"Helvetica-BoldOblique": buildMetrics(helveticaBoldASCII, helveticaBoldUpper, 611),
	"Courier":               monospaced(600),
	"Courier-Oblique":       monospaced(600),
	"Courier-Bold":          monospaced(600),
	"Courier-BoldOblique":   monospaced(600),
}
