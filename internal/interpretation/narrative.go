// Package interpretation turns computed numbers into the written reading,
// asking a language model first and falling back to fixed text.
package interpretation

import (
	"fmt"
	"time"

	"cosmonumero/internal/numerology"
)

// Source says where a narrative came from.
type Source string

const (
	SourceProvider Source = "provider"
	SourceFallback Source = "fallback"
)

// Subject is the person a reading is written for.
type Subject struct {
	FullName    string
	BirthDate   numerology.BirthDate
	CurrentDate time.Time
}

// Narrative holds the seven interpretation texts of a reading.
type Narrative struct {
	LifePathMeaning      string `json:"lifePathMeaning"`
	LifePathTalents      string `json:"lifePathTalents"`
	DestinyMeaning       string `json:"destinyMeaning"`
	PersonalYearMeaning  string `json:"personalYearMeaning"`
	CurrentChallenges    string `json:"currentChallenges"`
	CurrentOpportunities string `json:"currentOpportunities"`
	DailyRitual          string `json:"dailyRitual"`
}

// field returns a pointer to the narrative field named by its JSON key.
func (n *Narrative) field(key string) *string {
	switch key {
	case "lifePathMeaning":
		return &n.LifePathMeaning
	case "lifePathTalents":
		return &n.LifePathTalents
	case "destinyMeaning":
		return &n.DestinyMeaning
	case "personalYearMeaning":
		return &n.PersonalYearMeaning
	case "currentChallenges":
		return &n.CurrentChallenges
	case "currentOpportunities":
		return &n.CurrentOpportunities
	case "dailyRitual":
		return &n.DailyRitual
	}
	return nil
}

func (n *Narrative) fields() []*string {
	return []*string{
		&n.LifePathMeaning,
		&n.LifePathTalents,
		&n.DestinyMeaning,
		&n.PersonalYearMeaning,
		&n.CurrentChallenges,
		&n.CurrentOpportunities,
		&n.DailyRitual,
	}
}

// IsEmpty reports whether no field has text.
func (n Narrative) IsEmpty() bool {
	for _, f := range n.fields() {
		if *f != "" {
			return false
		}
	}
	return true
}

// withFallback fills every empty field from fb and reports how many were filled.
func (n Narrative) withFallback(fb Narrative) (Narrative, int) {
	filled := 0
	dst, src := n.fields(), fb.fields()
	for i := range dst {
		if *dst[i] == "" {
			*dst[i] = *src[i]
			filled++
		}
	}
	return n, filled
}

// Fallback is the fixed narrative used when the provider cannot answer.
func Fallback(r numerology.Result) Narrative {
	lp, d, py := r.LifePathNumber, r.DestinyNumber, r.PersonalYearNumber
	return Narrative{
		LifePathMeaning: fmt.Sprintf("O Caminho de Vida %d representa seu propósito principal nesta existência. "+
			"Este número revela os talentos inatos e desafios que você enfrentará para alcançar seu maior potencial. "+
			"Ele serve como um guia para entender sua missão de vida e as lições que você veio aprender.", lp),
		LifePathTalents: fmt.Sprintf("Com o Caminho de Vida %d, você possui talentos naturais que podem estar adormecidos ou subestimados. "+
			"Desenvolver e expressar esses dons é essencial para seu crescimento pessoal e para cumprir seu propósito maior.", lp),
		DestinyMeaning: fmt.Sprintf("Seu Número de Destino %d revela as grandes lições que você veio aprender nesta vida. "+
			"Ele aponta para qualidades e habilidades que deve desenvolver para alcançar seu potencial máximo e realizar sua missão de vida.", d),
		PersonalYearMeaning: fmt.Sprintf("Você está em um Ano Pessoal %d, que traz uma energia específica para o período atual até seu próximo aniversário. "+
			"Esta vibração influencia as experiências, oportunidades e desafios que encontrará neste ciclo.", py),
		CurrentChallenges: fmt.Sprintf("A combinação do seu Caminho de Vida %d com seu Ano Pessoal %d apresenta desafios específicos neste momento. "+
			"Estar consciente deles ajuda a navegar este período com mais sabedoria e menos resistência.", lp, py),
		CurrentOpportunities: fmt.Sprintf("A interação entre seu Caminho de Vida %d e Ano Pessoal %d cria oportunidades únicas neste momento. "+
			"Reconhecê-las e aproveitá-las pode acelerar seu crescimento e trazer realizações significativas.", lp, py),
		DailyRitual: fmt.Sprintf("Um ritual diário baseado no seu Caminho de Vida %d pode ajudar a mantê-lo alinhado com seu propósito maior. "+
			"Dedique alguns minutos por dia para esta prática e observe como ela potencializa sua energia natural.", lp),
	}
}
