package integrity

import "strings"

// Fixed, non-exhaustive rosters used by the gender consistency check.
// Classification is a lookup, never an inference: a name in neither set
// contributes nothing to the check.

var maleNames = nameSet(
	"MJF", "Jon Moxley", "Roman Reigns", "Seth Rollins", "Randy Savage", "Batista",
	"Mark Henry", "Matt Hardy", "Jeff Hardy", "Andrade", "Triple H", "The Rock",
	"Bret Hart", "Cesaro", "Keith Lee", "Jungle Boy", "AJ Styles", "Sheamus",
	"Brock Lesnar", "CM Punk", "Bryan Danielson", "Samoa Joe", "Dean Ambrose",
	"Daniel Bryan", "John Cena", "Drew McIntyre", "Bobby Lashley", "The Undertaker",
	"Rey Mysterio", "Dustin Rhodes", "Austin Aries", "Mr. Anderson", "Wardlow",
	"Matt Morgan", "Alex Shelley", "Sting", "Kenny Omega", "Cody Rhodes", "Adam Cole",
	"Hangman Adam Page", "Orange Cassidy", "Pac", "Miro", "Darby Allin", "Ricky Starks",
	"Swerve Strickland", "Will Ospreay", "Hook", "Eddie Kingston", "Luchasaurus",
	"Lance Archer", "Mick Foley", "Edge", "Kevin Owens", "Dolph Ziggler", "Goldberg",
	"Kane", "Big Show", "Kofi Kingston", "Shawn Michaels", "Stone Cold Steve Austin",
	"Hulk Hogan", "Randy Orton", "Booker T", "Kurt Angle", "Rob Van Dam", "Ric Flair",
	"Chris Jericho", "Eddie Guerrero", "Rey Fenix", "Penta El Zero Miedo", "Ortiz",
	"Santana", "Powerhouse Hobbs", "Rhino", "Abyss", "Bobby Roode", "Magnus",
	"Christopher Daniels", "Frankie Kazarian", "Bully Ray", "Eric Young", "James Storm",
	"Jeff Jarrett", "Taz", "The Sandman", "Rhyno", "Lance Storm", "Steve Corino",
	"Sami Zayn", "Big E", "Rick Steiner", "Scott Steiner",
)

var femaleNames = nameSet(
	"Charlotte Flair", "Becky Lynch", "Sasha Banks", "Bayley", "Asuka", "Alexa Bliss",
	"Rhea Ripley", "Bianca Belair", "Trish Stratus", "Lita", "Chyna", "Beth Phoenix",
	"Natalya", "Naomi", "Carmella", "Nikki Bella", "Brie Bella", "Paige",
	"Ronda Rousey", "Shayna Baszler", "Britt Baker", "Thunder Rosa", "Jade Cargill",
	"Toni Storm", "Saraya", "Hikaru Shida", "Riho", "Nyla Rose", "Kris Statlander",
	"Penelope Ford", "Anna Jay", "Tay Conti", "Ruby Soho", "Jamie Hayter",
	"Willow Nightingale", "Mercedes Mone", "Iyo Sky", "Dakota Kai", "Kairi Sane",
	"Liv Morgan", "Lacey Evans", "Nia Jax", "Tamina", "Sonya Deville", "Mandy Rose",
	"Zelina Vega", "Mickie James", "Gail Kim", "Awesome Kong", "Tara", "Brooke Tessmacher",
)

func nameSet(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set
}

// KnownMale reports whether the name is in the male roster.
func KnownMale(name string) bool {
	return maleNames[strings.ToLower(name)]
}

// KnownFemale reports whether the name is in the female roster.
func KnownFemale(name string) bool {
	return femaleNames[strings.ToLower(name)]
}

// WomensTitle reports whether a title name indicates a women's division.
func WomensTitle(titleName string) bool {
	lower := strings.ToLower(titleName)
	return strings.Contains(lower, "women") ||
		strings.Contains(lower, "knockouts") ||
		strings.Contains(lower, "diva")
}

// MixedTitle reports whether a title is open to all divisions, exempting
// it from the gender check.
func MixedTitle(titleName string) bool {
	return strings.Contains(strings.ToLower(titleName), "mixed")
}
