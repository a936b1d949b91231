package plurals

import "golang.org/x/text/language"

const defaultPluralForms = "nplurals=2; plural=(n != 1);"

// pluralForms holds the Plural-Forms header used by GNU gettext for each
// base language. Region-specific overrides live in regionPluralForms.
var pluralForms = map[string]string{
	// one form
	"ja": "nplurals=1; plural=0;",
	"ko": "nplurals=1; plural=0;",
	"zh": "nplurals=1; plural=0;",
	"vi": "nplurals=1; plural=0;",
	"th": "nplurals=1; plural=0;",
	"id": "nplurals=1; plural=0;",
	"ms": "nplurals=1; plural=0;",
	"km": "nplurals=1; plural=0;",
	"lo": "nplurals=1; plural=0;",
	"my": "nplurals=1; plural=0;",

	// singular for 0 and 1
	"fr": "nplurals=2; plural=(n > 1);",
	"pt": "nplurals=2; plural=(n != 1);",
	"hy": "nplurals=2; plural=(n > 1);",
	"fa": "nplurals=2; plural=(n > 1);",

	// singular for exactly one
	"en": defaultPluralForms,
	"de": defaultPluralForms,
	"nl": defaultPluralForms,
	"sv": defaultPluralForms,
	"da": defaultPluralForms,
	"no": defaultPluralForms,
	"nb": defaultPluralForms,
	"nn": defaultPluralForms,
	"fi": defaultPluralForms,
	"es": defaultPluralForms,
	"it": defaultPluralForms,
	"el": defaultPluralForms,
	"he": defaultPluralForms,
	"hu": defaultPluralForms,
	"tr": defaultPluralForms,
	"bg": defaultPluralForms,
	"hi": defaultPluralForms,
	"ur": defaultPluralForms,
	"et": defaultPluralForms,
	"ca": defaultPluralForms,
	"eu": defaultPluralForms,
	"gl": defaultPluralForms,
	"af": defaultPluralForms,

	"ru": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"uk": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"be": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"hr": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"sr": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"bs": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"pl": "nplurals=3; plural=(n==1 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"cs": "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);",
	"sk": "nplurals=3; plural=(n==1 ? 0 : n>=2 && n<=4 ? 1 : 2);",
	"ro": "nplurals=3; plural=(n==1 ? 0 : (n==0 || (n%100 > 0 && n%100 < 20)) ? 1 : 2);",
	"lt": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && (n%100<10 || n%100>=20) ? 1 : 2);",
	"lv": "nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n != 0 ? 1 : 2);",
	"sl": "nplurals=4; plural=(n%100==1 ? 0 : n%100==2 ? 1 : n%100==3 || n%100==4 ? 2 : 3);",
	"ga": "nplurals=5; plural=(n==1 ? 0 : n==2 ? 1 : n<7 ? 2 : n<11 ? 3 : 4);",
	"ar": "nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);",
}

// regionPluralForms overrides pluralForms for specific regional variants.
var regionPluralForms = map[string]string{
	"pt-BR": "nplurals=2; plural=(n > 1);",
}

func lookupPluralForms(tag language.Tag) (string, bool) {
	base, _ := tag.Base()
	if region, conf := tag.Region(); conf == language.Exact {
		if pf, ok := regionPluralForms[base.String()+"-"+region.String()]; ok {
			return pf, true
		}
	}
	pf, ok := pluralForms[base.String()]
	return pf, ok
}
