package domain

// Finish is the physical print variant of a card.
type Finish string

const (
	FinishNormal Finish = "normal"
	FinishFoil   Finish = "foil"
	FinishEtched Finish = "etched"
	FinishAny    Finish = "N/A"
)

// CardRequestSpec is one line of a wanted-card list: how many copies of which
// card, plus optional printing constraints. Absent SetCode/CollectorID act as
// wildcards when listings are filtered.
type CardRequestSpec struct {
	Amount      int    `json:"amount" bson:"amount"`
	CardName    string `json:"card_name" bson:"card_name"`
	SetCode     string `json:"set_code,omitempty" bson:"set_code,omitempty"`
	CollectorID string `json:"collector_id,omitempty" bson:"collector_id,omitempty"`
	Finish      Finish `json:"finish" bson:"finish"`
}

// WantsFoil reports whether the spec constrains listings to foil printings.
func (s CardRequestSpec) WantsFoil() bool {
	return s.Finish == FinishFoil
}
