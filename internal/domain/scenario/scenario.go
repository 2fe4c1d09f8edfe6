// Package scenario maps free-text requests to a fixed set of service scenarios
// and exposes the static modes and progress steps offered for each of them.
package scenario

import (
	"strings"

	"goalhk/internal/domain/textnorm"
)

type Key string

const (
	PipeBurst    Key = "PIPE_BURST"
	Renovation   Key = "RENOVATION"
	EatBuddy     Key = "EAT_BUDDY"
	DoctorEscort Key = "DOCTOR_ESCORT"
	HikingBuddy  Key = "HIKING_BUDDY"
	VisitElderly Key = "VISIT_ELDERLY"
	Cooking      Key = "COOKING"
	Chat         Key = "CHAT"
	ACClean      Key = "AC_CLEAN"
	Moving       Key = "MOVING"
	Jumpstart    Key = "JUMPSTART"
	Locksmith    Key = "LOCKSMITH"
	Tutoring     Key = "TUTORING"
	Massage      Key = "MASSAGE"
	DogWalk      Key = "DOG_WALK"
	Delivery     Key = "DELIVERY"
	Queue        Key = "QUEUE"
	Photo        Key = "PHOTO"
	TechSupport  Key = "TECH_SUPPORT"
	Legal        Key = "LEGAL"
	General      Key = "GENERAL"
)

func (k Key) String() string {
	return string(k)
}

type keyword struct {
	text string
	key  Key
}

// keywords is scanned top to bottom and the first substring hit wins.
// 食飯 must stay ahead of 飯; 洗冷氣 is shadowed by 冷氣.
var keywords = []keyword{
	{"水管", PipeBurst}, {"喉", PipeBurst}, {"漏水", PipeBurst},
	{"裝修", Renovation}, {"設計", Renovation},
	{"食飯", EatBuddy}, {"陪食", EatBuddy},
	{"醫生", DoctorEscort}, {"診", DoctorEscort}, {"醫院", DoctorEscort},
	{"行山", HikingBuddy}, {"運動", HikingBuddy},
	{"母親", VisitElderly}, {"探", VisitElderly}, {"老人家", VisitElderly},
	{"煮", Cooking}, {"飯", Cooking},
	{"傾偈", Chat}, {"聊天", Chat},
	{"冷氣", ACClean}, {"洗冷氣", ACClean},
	{"搬", Moving}, {"屋", Moving},
	{"搭火", Jumpstart}, {"車", Jumpstart},
	{"鎖", Locksmith}, {"匙", Locksmith},
	{"補習", Tutoring}, {"教", Tutoring},
	{"按摩", Massage}, {"骨", Massage},
	{"狗", DogWalk}, {"寵物", DogWalk},
	{"送", Delivery}, {"快遞", Delivery},
	{"排隊", Queue}, {"飛", Queue},
	{"影相", Photo}, {"攝影", Photo},
	{"電腦", TechSupport}, {"wifi", TechSupport},
	{"法律", Legal}, {"律師", Legal},
}

// Classify returns the scenario of the first keyword contained in input,
// or General when nothing matches.
func Classify(input string) Key {
	text := textnorm.Fold(input)
	for _, kw := range keywords {
		if strings.Contains(text, kw.text) {
			return kw.key
		}
	}
	return General
}

// Keywords returns the keyword table in match order.
func Keywords() []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = kw.text
	}
	return out
}

// Keys lists every scenario a request can resolve to, General last.
func Keys() []Key {
	seen := make(map[Key]bool)
	var out []Key
	for _, kw := range keywords {
		if !seen[kw.key] {
			seen[kw.key] = true
			out = append(out, kw.key)
		}
	}
	return append(out, General)
}
