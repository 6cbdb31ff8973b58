package tcgplayer

import (
	"fmt"
	"net/url"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mtgban/go-banprice/mtgban"
)

const (
	BaseProductURL    = "https://www.tcgplayer.com/product/"
	PartnerProductURL = "https://tcgplayer.pxf.io/c/%s/1830156/21018"
)

var conditionMap = map[string]mtgban.Condition{
	"Near Mint":         mtgban.ConditionNM,
	"Lightly Played":    mtgban.ConditionSP,
	"Moderately Played": mtgban.ConditionMP,
	"Heavily Played":    mtgban.ConditionHP,
	"Damaged":           mtgban.ConditionPO,
}

func printingName(finish mtgban.Finish) string {
	switch finish {
	case mtgban.FinishFoil:
		return "Foil"
	case mtgban.FinishEtched:
		return "Foil Etched"
	}
	return "Normal"
}

func TCGPlayerProductURL(productId int, printing, affiliate, condition, lang string) string {
	u, err := url.Parse(BaseProductURL + fmt.Sprint(productId))
	if err != nil {
		return ""
	}

	v := u.Query()
	if printing != "" {
		v.Set("Printing", printing)
	}
	if condition != "" {
		for full, short := range conditionMap {
			if string(short) == condition {
				condition = full
				break
			}
		}
		v.Set("Condition", condition)
	}
	if lang != "" {
		lang = cases.Title(language.English).String(lang)
		switch lang {
		case "Portuguese (Brazil)":
			lang = "Portugese"
		case "Chinese Simplified":
			lang = "Chinese (S)"
		case "Chinese Traditional":
			lang = "Chinese (T)"
		}
		v.Set("Language", lang)
	} else {
		v.Set("Language", "all")
	}

	// This chunk needs to be last, stash the built link in a query param
	// and use the impact URL instead
	if affiliate != "" {
		u.RawQuery = v.Encode()
		link := u.String()

		u, err = url.Parse(fmt.Sprintf(PartnerProductURL, affiliate))
		if err != nil {
			return ""
		}

		v = url.Values{}
		v.Set("u", link)
	}

	u.RawQuery = v.Encode()

	return u.String()
}
