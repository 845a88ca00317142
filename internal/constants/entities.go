// Named character references drawn from the classic HTML4/XHTML entity
// sets (latin1, special, symbol) plus widely used HTML5-only additions.
// Named-character-reference matching is a longest-prefix match against
// this table.
package constants

// MaxNamedEntityKeyLen is the length, in code points, of the longest key
// in NamedEntities. Named-character-reference matching never needs to look
// further ahead than this.
const MaxNamedEntityKeyLen = 8

// NamedEntities maps a named-character-reference key (the name, with a
// trailing ';' for references that require one, without for the legacy
// subset that browsers also accept unterminated) to its expansion.
var NamedEntities = map[string]string{
	"AElig;": "\u00c6",
	"Aacute;": "\u00c1",
	"Acirc;": "\u00c2",
	"Agrave;": "\u00c0",
	"Alpha;": "\u0391",
	"Aring;": "\u00c5",
	"Atilde;": "\u00c3",
	"Auml;": "\u00c4",
	"Beta;": "\u0392",
	"Ccedil;": "\u00c7",
	"Chi;": "\u03a7",
	"Dagger;": "\u2021",
	"Delta;": "\u0394",
	"ETH;": "\u00d0",
	"Eacute;": "\u00c9",
	"Ecirc;": "\u00ca",
	"Egrave;": "\u00c8",
	"Epsilon;": "\u0395",
	"Eta;": "\u0397",
	"Euml;": "\u00cb",
	"Gamma;": "\u0393",
	"Iacute;": "\u00cd",
	"Icirc;": "\u00ce",
	"Igrave;": "\u00cc",
	"Iota;": "\u0399",
	"Iuml;": "\u00cf",
	"Kappa;": "\u039a",
	"Lambda;": "\u039b",
	"Mu;": "\u039c",
	"Ntilde;": "\u00d1",
	"Nu;": "\u039d",
	"OElig;": "\u0152",
	"Oacute;": "\u00d3",
	"Ocirc;": "\u00d4",
	"Ograve;": "\u00d2",
	"Omega;": "\u03a9",
	"Omicron;": "\u039f",
	"Oslash;": "\u00d8",
	"Otilde;": "\u00d5",
	"Ouml;": "\u00d6",
	"Phi;": "\u03a6",
	"Pi;": "\u03a0",
	"Prime;": "\u2033",
	"Psi;": "\u03a8",
	"Rho;": "\u03a1",
	"Scaron;": "\u0160",
	"Sigma;": "\u03a3",
	"THORN;": "\u00de",
	"Tau;": "\u03a4",
	"Theta;": "\u0398",
	"Uacute;": "\u00da",
	"Ucirc;": "\u00db",
	"Ugrave;": "\u00d9",
	"Upsilon;": "\u03a5",
	"Uuml;": "\u00dc",
	"Xi;": "\u039e",
	"Yacute;": "\u00dd",
	"Yuml;": "\u0178",
	"Zeta;": "\u0396",
	"aacute;": "\u00e1",
	"acirc;": "\u00e2",
	"acute;": "\u00b4",
	"aelig;": "\u00e6",
	"agrave;": "\u00e0",
	"alefsym;": "\u2135",
	"alpha;": "\u03b1",
	"amp;": "&",
	"and;": "\u2227",
	"ang;": "\u2220",
	"aring;": "\u00e5",
	"asymp;": "\u2248",
	"atilde;": "\u00e3",
	"auml;": "\u00e4",
	"bdquo;": "\u201e",
	"beta;": "\u03b2",
	"brvbar;": "\u00a6",
	"bull;": "\u2022",
	"cap;": "\u2229",
	"ccedil;": "\u00e7",
	"cedil;": "\u00b8",
	"cent;": "\u00a2",
	"chi;": "\u03c7",
	"circ;": "\u02c6",
	"clubs;": "\u2663",
	"cong;": "\u2245",
	"copy;": "\u00a9",
	"crarr;": "\u21b5",
	"cup;": "\u222a",
	"curren;": "\u00a4",
	"dArr;": "\u21d3",
	"dagger;": "\u2020",
	"darr;": "\u2193",
	"deg;": "\u00b0",
	"delta;": "\u03b4",
	"diams;": "\u2666",
	"divide;": "\u00f7",
	"eacute;": "\u00e9",
	"ecirc;": "\u00ea",
	"egrave;": "\u00e8",
	"empty;": "\u2205",
	"emsp;": "\u2003",
	"ensp;": "\u2002",
	"epsilon;": "\u03b5",
	"equiv;": "\u2261",
	"eta;": "\u03b7",
	"eth;": "\u00f0",
	"euml;": "\u00eb",
	"euro;": "\u20ac",
	"exist;": "\u2203",
	"fnof;": "\u0192",
	"forall;": "\u2200",
	"frac12;": "\u00bd",
	"frac14;": "\u00bc",
	"frac34;": "\u00be",
	"frasl;": "\u2044",
	"gamma;": "\u03b3",
	"ge;": "\u2265",
	"gt;": ">",
	"hArr;": "\u21d4",
	"harr;": "\u2194",
	"hearts;": "\u2665",
	"hellip;": "\u2026",
	"iacute;": "\u00ed",
	"icirc;": "\u00ee",
	"iexcl;": "\u00a1",
	"igrave;": "\u00ec",
	"image;": "\u2111",
	"infin;": "\u221e",
	"int;": "\u222b",
	"iota;": "\u03b9",
	"iquest;": "\u00bf",
	"isin;": "\u2208",
	"iuml;": "\u00ef",
	"kappa;": "\u03ba",
	"lArr;": "\u21d0",
	"lambda;": "\u03bb",
	"lang;": "\u27e8",
	"laquo;": "\u00ab",
	"larr;": "\u2190",
	"lceil;": "\u2308",
	"ldquo;": "\u201c",
	"le;": "\u2264",
	"lfloor;": "\u230a",
	"lowast;": "\u2217",
	"loz;": "\u25ca",
	"lrm;": "\u200e",
	"lsaquo;": "\u2039",
	"lsquo;": "\u2018",
	"lt;": "<",
	"macr;": "\u00af",
	"mdash;": "\u2014",
	"micro;": "\u00b5",
	"middot;": "\u00b7",
	"minus;": "\u2212",
	"mu;": "\u03bc",
	"nabla;": "\u2207",
	"nbsp;": "\u00a0",
	"ndash;": "\u2013",
	"ne;": "\u2260",
	"ni;": "\u220b",
	"not;": "\u00ac",
	"notin;": "\u2209",
	"nsub;": "\u2284",
	"ntilde;": "\u00f1",
	"nu;": "\u03bd",
	"oacute;": "\u00f3",
	"ocirc;": "\u00f4",
	"oelig;": "\u0153",
	"ograve;": "\u00f2",
	"oline;": "\u203e",
	"omega;": "\u03c9",
	"omicron;": "\u03bf",
	"oplus;": "\u2295",
	"or;": "\u2228",
	"ordf;": "\u00aa",
	"ordm;": "\u00ba",
	"oslash;": "\u00f8",
	"otilde;": "\u00f5",
	"otimes;": "\u2297",
	"ouml;": "\u00f6",
	"para;": "\u00b6",
	"part;": "\u2202",
	"permil;": "\u2030",
	"perp;": "\u22a5",
	"phi;": "\u03c6",
	"pi;": "\u03c0",
	"plusmn;": "\u00b1",
	"pound;": "\u00a3",
	"prime;": "\u2032",
	"prod;": "\u220f",
	"prop;": "\u221d",
	"psi;": "\u03c8",
	"quot;": "\"",
	"rArr;": "\u21d2",
	"radic;": "\u221a",
	"rang;": "\u27e9",
	"raquo;": "\u00bb",
	"rarr;": "\u2192",
	"rceil;": "\u2309",
	"rdquo;": "\u201d",
	"real;": "\u211c",
	"reg;": "\u00ae",
	"rfloor;": "\u230b",
	"rho;": "\u03c1",
	"rlm;": "\u200f",
	"rsaquo;": "\u203a",
	"rsquo;": "\u2019",
	"sbquo;": "\u201a",
	"scaron;": "\u0161",
	"sdot;": "\u22c5",
	"sect;": "\u00a7",
	"shy;": "\u00ad",
	"sigma;": "\u03c3",
	"sigmaf;": "\u03c2",
	"sim;": "\u223c",
	"spades;": "\u2660",
	"sub;": "\u2282",
	"sube;": "\u2286",
	"sum;": "\u2211",
	"sup;": "\u2283",
	"sup1;": "\u00b9",
	"sup2;": "\u00b2",
	"sup3;": "\u00b3",
	"supe;": "\u2287",
	"szlig;": "\u00df",
	"tau;": "\u03c4",
	"there4;": "\u2234",
	"theta;": "\u03b8",
	"thinsp;": "\u2009",
	"thorn;": "\u00fe",
	"tilde;": "\u02dc",
	"times;": "\u00d7",
	"trade;": "\u2122",
	"uArr;": "\u21d1",
	"uacute;": "\u00fa",
	"uarr;": "\u2191",
	"ucirc;": "\u00fb",
	"ugrave;": "\u00f9",
	"uml;": "\u00a8",
	"upsilon;": "\u03c5",
	"uuml;": "\u00fc",
	"weierp;": "\u2118",
	"xi;": "\u03be",
	"yacute;": "\u00fd",
	"yen;": "\u00a5",
	"yuml;": "\u00ff",
	"zeta;": "\u03b6",
	"zwj;": "\u200d",
	"zwnj;": "\u200c",
	"AElig": "\u00c6", // legacy: accepted without trailing ';'
	"Aacute": "\u00c1", // legacy: accepted without trailing ';'
	"Acirc": "\u00c2", // legacy: accepted without trailing ';'
	"Agrave": "\u00c0", // legacy: accepted without trailing ';'
	"Aring": "\u00c5", // legacy: accepted without trailing ';'
	"Atilde": "\u00c3", // legacy: accepted without trailing ';'
	"Auml": "\u00c4", // legacy: accepted without trailing ';'
	"Ccedil": "\u00c7", // legacy: accepted without trailing ';'
	"ETH": "\u00d0", // legacy: accepted without trailing ';'
	"Eacute": "\u00c9", // legacy: accepted without trailing ';'
	"Ecirc": "\u00ca", // legacy: accepted without trailing ';'
	"Egrave": "\u00c8", // legacy: accepted without trailing ';'
	"Euml": "\u00cb", // legacy: accepted without trailing ';'
	"Iacute": "\u00cd", // legacy: accepted without trailing ';'
	"Icirc": "\u00ce", // legacy: accepted without trailing ';'
	"Igrave": "\u00cc", // legacy: accepted without trailing ';'
	"Iuml": "\u00cf", // legacy: accepted without trailing ';'
	"Ntilde": "\u00d1", // legacy: accepted without trailing ';'
	"Oacute": "\u00d3", // legacy: accepted without trailing ';'
	"Ocirc": "\u00d4", // legacy: accepted without trailing ';'
	"Ograve": "\u00d2", // legacy: accepted without trailing ';'
	"Oslash": "\u00d8", // legacy: accepted without trailing ';'
	"Otilde": "\u00d5", // legacy: accepted without trailing ';'
	"Ouml": "\u00d6", // legacy: accepted without trailing ';'
	"THORN": "\u00de", // legacy: accepted without trailing ';'
	"Uacute": "\u00da", // legacy: accepted without trailing ';'
	"Ucirc": "\u00db", // legacy: accepted without trailing ';'
	"Ugrave": "\u00d9", // legacy: accepted without trailing ';'
	"Uuml": "\u00dc", // legacy: accepted without trailing ';'
	"Yacute": "\u00dd", // legacy: accepted without trailing ';'
	"aacute": "\u00e1", // legacy: accepted without trailing ';'
	"acirc": "\u00e2", // legacy: accepted without trailing ';'
	"acute": "\u00b4", // legacy: accepted without trailing ';'
	"aelig": "\u00e6", // legacy: accepted without trailing ';'
	"agrave": "\u00e0", // legacy: accepted without trailing ';'
	"amp": "&", // legacy: accepted without trailing ';'
	"aring": "\u00e5", // legacy: accepted without trailing ';'
	"atilde": "\u00e3", // legacy: accepted without trailing ';'
	"auml": "\u00e4", // legacy: accepted without trailing ';'
	"brvbar": "\u00a6", // legacy: accepted without trailing ';'
	"ccedil": "\u00e7", // legacy: accepted without trailing ';'
	"cedil": "\u00b8", // legacy: accepted without trailing ';'
	"cent": "\u00a2", // legacy: accepted without trailing ';'
	"copy": "\u00a9", // legacy: accepted without trailing ';'
	"curren": "\u00a4", // legacy: accepted without trailing ';'
	"deg": "\u00b0", // legacy: accepted without trailing ';'
	"divide": "\u00f7", // legacy: accepted without trailing ';'
	"eacute": "\u00e9", // legacy: accepted without trailing ';'
	"ecirc": "\u00ea", // legacy: accepted without trailing ';'
	"egrave": "\u00e8", // legacy: accepted without trailing ';'
	"eth": "\u00f0", // legacy: accepted without trailing ';'
	"euml": "\u00eb", // legacy: accepted without trailing ';'
	"frac12": "\u00bd", // legacy: accepted without trailing ';'
	"frac14": "\u00bc", // legacy: accepted without trailing ';'
	"frac34": "\u00be", // legacy: accepted without trailing ';'
	"gt": ">", // legacy: accepted without trailing ';'
	"iacute": "\u00ed", // legacy: accepted without trailing ';'
	"icirc": "\u00ee", // legacy: accepted without trailing ';'
	"iexcl": "\u00a1", // legacy: accepted without trailing ';'
	"igrave": "\u00ec", // legacy: accepted without trailing ';'
	"iquest": "\u00bf", // legacy: accepted without trailing ';'
	"iuml": "\u00ef", // legacy: accepted without trailing ';'
	"laquo": "\u00ab", // legacy: accepted without trailing ';'
	"lt": "<", // legacy: accepted without trailing ';'
	"macr": "\u00af", // legacy: accepted without trailing ';'
	"micro": "\u00b5", // legacy: accepted without trailing ';'
	"middot": "\u00b7", // legacy: accepted without trailing ';'
	"nbsp": "\u00a0", // legacy: accepted without trailing ';'
	"not": "\u00ac", // legacy: accepted without trailing ';'
	"ntilde": "\u00f1", // legacy: accepted without trailing ';'
	"oacute": "\u00f3", // legacy: accepted without trailing ';'
	"ocirc": "\u00f4", // legacy: accepted without trailing ';'
	"ograve": "\u00f2", // legacy: accepted without trailing ';'
	"ordf": "\u00aa", // legacy: accepted without trailing ';'
	"ordm": "\u00ba", // legacy: accepted without trailing ';'
	"oslash": "\u00f8", // legacy: accepted without trailing ';'
	"otilde": "\u00f5", // legacy: accepted without trailing ';'
	"ouml": "\u00f6", // legacy: accepted without trailing ';'
	"para": "\u00b6", // legacy: accepted without trailing ';'
	"plusmn": "\u00b1", // legacy: accepted without trailing ';'
	"pound": "\u00a3", // legacy: accepted without trailing ';'
	"quot": "\"", // legacy: accepted without trailing ';'
	"raquo": "\u00bb", // legacy: accepted without trailing ';'
	"reg": "\u00ae", // legacy: accepted without trailing ';'
	"sect": "\u00a7", // legacy: accepted without trailing ';'
	"shy": "\u00ad", // legacy: accepted without trailing ';'
	"sup1": "\u00b9", // legacy: accepted without trailing ';'
	"sup2": "\u00b2", // legacy: accepted without trailing ';'
	"sup3": "\u00b3", // legacy: accepted without trailing ';'
	"szlig": "\u00df", // legacy: accepted without trailing ';'
	"thorn": "\u00fe", // legacy: accepted without trailing ';'
	"times": "\u00d7", // legacy: accepted without trailing ';'
	"uacute": "\u00fa", // legacy: accepted without trailing ';'
	"ucirc": "\u00fb", // legacy: accepted without trailing ';'
	"ugrave": "\u00f9", // legacy: accepted without trailing ';'
	"uml": "\u00a8", // legacy: accepted without trailing ';'
	"uuml": "\u00fc", // legacy: accepted without trailing ';'
	"yacute": "\u00fd", // legacy: accepted without trailing ';'
	"yen": "\u00a5", // legacy: accepted without trailing ';'
	"yuml": "\u00ff", // legacy: accepted without trailing ';'
}

// LegacyEntities is the subset of NamedEntities keys (without a trailing
// ';') that the HTML5 tokenizer's named-character-reference state still
// recognizes for historical compatibility.
var LegacyEntities = map[string]bool{
	"AElig": true,
	"Aacute": true,
	"Acirc": true,
	"Agrave": true,
	"Aring": true,
	"Atilde": true,
	"Auml": true,
	"Ccedil": true,
	"ETH": true,
	"Eacute": true,
	"Ecirc": true,
	"Egrave": true,
	"Euml": true,
	"Iacute": true,
	"Icirc": true,
	"Igrave": true,
	"Iuml": true,
	"Ntilde": true,
	"Oacute": true,
	"Ocirc": true,
	"Ograve": true,
	"Oslash": true,
	"Otilde": true,
	"Ouml": true,
	"THORN": true,
	"Uacute": true,
	"Ucirc": true,
	"Ugrave": true,
	"Uuml": true,
	"Yacute": true,
	"aacute": true,
	"acirc": true,
	"acute": true,
	"aelig": true,
	"agrave": true,
	"amp": true,
	"aring": true,
	"atilde": true,
	"auml": true,
	"brvbar": true,
	"ccedil": true,
	"cedil": true,
	"cent": true,
	"copy": true,
	"curren": true,
	"deg": true,
	"divide": true,
	"eacute": true,
	"ecirc": true,
	"egrave": true,
	"eth": true,
	"euml": true,
	"frac12": true,
	"frac14": true,
	"frac34": true,
	"gt": true,
	"iacute": true,
	"icirc": true,
	"iexcl": true,
	"igrave": true,
	"iquest": true,
	"iuml": true,
	"laquo": true,
	"lt": true,
	"macr": true,
	"micro": true,
	"middot": true,
	"nbsp": true,
	"not": true,
	"ntilde": true,
	"oacute": true,
	"ocirc": true,
	"ograve": true,
	"ordf": true,
	"ordm": true,
	"oslash": true,
	"otilde": true,
	"ouml": true,
	"para": true,
	"plusmn": true,
	"pound": true,
	"quot": true,
	"raquo": true,
	"reg": true,
	"sect": true,
	"shy": true,
	"sup1": true,
	"sup2": true,
	"sup3": true,
	"szlig": true,
	"thorn": true,
	"times": true,
	"uacute": true,
	"ucirc": true,
	"ugrave": true,
	"uml": true,
	"uuml": true,
	"yacute": true,
	"yen": true,
	"yuml": true,
}

