package integrity

import "strings"

// PromotionRef identifies a promotion inferred from free text.
type PromotionRef struct {
	Name         string
	Slug         string
	Abbreviation string
}

// promotionPatterns maps brand keywords to promotions. Event-name
// patterns (WrestleMania, G1) sit below the plain brand tokens so an
// explicit brand always wins.
var promotionPatterns = []struct {
	keywords []string
	ref      PromotionRef
}{
	{[]string{"WWE", "WWF", "World Wrestling Entertainment"}, PromotionRef{"WWE", "wwe", "WWE"}},
	{[]string{"AEW", "All Elite"}, PromotionRef{"All Elite Wrestling", "all-elite-wrestling", "AEW"}},
	{[]string{"NWA", "National Wrestling Alliance"}, PromotionRef{"National Wrestling Alliance", "nwa", "NWA"}},
	{[]string{"WCW", "World Championship Wrestling"}, PromotionRef{"World Championship Wrestling", "wcw", "WCW"}},
	{[]string{"ECW", "Extreme Championship"}, PromotionRef{"Extreme Championship Wrestling", "ecw", "ECW"}},
	{[]string{"TNA", "Impact", "Total Nonstop"}, PromotionRef{"Impact Wrestling", "impact-wrestling", "IMPACT"}},
	{[]string{"ROH", "Ring of Honor"}, PromotionRef{"Ring of Honor", "ring-of-honor", "ROH"}},
	{[]string{"NJPW", "New Japan"}, PromotionRef{"New Japan Pro-Wrestling", "njpw", "NJPW"}},
	{[]string{"CMLL", "Consejo Mundial"}, PromotionRef{"CMLL", "cmll", "CMLL"}},
	{[]string{"AAA", "Lucha Libre AAA"}, PromotionRef{"Lucha Libre AAA", "aaa", "AAA"}},
	{[]string{"STARDOM"}, PromotionRef{"Stardom", "stardom", "STARDOM"}},
	{[]string{"DDT"}, PromotionRef{"DDT Pro-Wrestling", "ddt", "DDT"}},
	{[]string{"AJPW", "All Japan"}, PromotionRef{"All Japan Pro Wrestling", "ajpw", "AJPW"}},
	{[]string{"NOAH", "Pro Wrestling NOAH"}, PromotionRef{"Pro Wrestling Noah", "noah", "NOAH"}},
	{[]string{"MLW", "Major League Wrestling"}, PromotionRef{"Major League Wrestling", "mlw", "MLW"}},
	{[]string{"GCW", "Game Changer"}, PromotionRef{"Game Changer Wrestling", "gcw", "GCW"}},
	{[]string{"PWG", "Pro Wrestling Guerrilla"}, PromotionRef{"Pro Wrestling Guerrilla", "pwg", "PWG"}},
	{[]string{"PROGRESS"}, PromotionRef{"PROGRESS Wrestling", "progress", "PROGRESS"}},
	{[]string{"RevPro", "Revolution Pro"}, PromotionRef{"Revolution Pro Wrestling", "revpro", "RevPro"}},
	{[]string{"ICW"}, PromotionRef{"Insane Championship Wrestling", "icw", "ICW"}},
	{[]string{"OVW", "Ohio Valley"}, PromotionRef{"Ohio Valley Wrestling", "ovw", "OVW"}},
	{[]string{"NXT"}, PromotionRef{"WWE NXT", "nxt", "NXT"}},
	{[]string{"EVOLVE"}, PromotionRef{"EVOLVE Wrestling", "evolve", "EVOLVE"}},
	{[]string{"CZW", "Combat Zone"}, PromotionRef{"Combat Zone Wrestling", "czw", "CZW"}},
	{[]string{"Wrestle Kingdom", "G1"}, PromotionRef{"New Japan Pro-Wrestling", "njpw", "NJPW"}},
	{[]string{"WrestleMania", "Royal Rumble", "SummerSlam", "Survivor Series"}, PromotionRef{"WWE", "wwe", "WWE"}},
	{[]string{"Double or Nothing", "All Out", "Full Gear", "Revolution"}, PromotionRef{"All Elite Wrestling", "all-elite-wrestling", "AEW"}},
}

// InferPromotion guesses the promotion behind an event or title name.
// Returns nil when no keyword matches; callers must treat that as
// unknown, not as a distinct promotion.
func InferPromotion(name string) *PromotionRef {
	upper := strings.ToUpper(name)
	for _, entry := range promotionPatterns {
		for _, keyword := range entry.keywords {
			if strings.Contains(upper, strings.ToUpper(keyword)) {
				ref := entry.ref
				return &ref
			}
		}
	}
	return nil
}
