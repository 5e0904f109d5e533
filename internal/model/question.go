package model

// Question is a single numeric-answer prompt from the bank.
type Question struct {
	ID         string `json:"id" bson:"_id,omitempty"`
	Text       string `json:"text" bson:"text"`
	Category   string `json:"category" bson:"category"`
	Difficulty int    `json:"difficulty" bson:"difficulty"`
	MinAnswer  int    `json:"min_answer" bson:"min_answer"`
	MaxAnswer  int    `json:"max_answer" bson:"max_answer"`
}

// QuestionPair couples the real question everyone answers with the
// decoy handed to the round's odd player.
type QuestionPair struct {
	Real  Question `json:"real" bson:"real"`
	Decoy Question `json:"decoy" bson:"decoy"`
}
