package question

import (
	"errors"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// ErrBankEmpty is returned when no questions match a draw.
var ErrBankEmpty = errors.New("question bank is empty")

// SeedQuestions is the built-in real-question catalog.
func SeedQuestions() []model.Question {
	return []model.Question{
		{Text: "How many hours do you sleep per night on average?", Category: "lifestyle", Difficulty: 1, MinAnswer: 4, MaxAnswer: 12},
		{Text: "How many cups of coffee or tea do you drink daily?", Category: "lifestyle", Difficulty: 1, MinAnswer: 0, MaxAnswer: 8},
		{Text: "How many times do you exercise per week?", Category: "lifestyle", Difficulty: 1, MinAnswer: 0, MaxAnswer: 7},
		{Text: "How many hours do you spend on your phone daily?", Category: "lifestyle", Difficulty: 1, MinAnswer: 1, MaxAnswer: 12},
		{Text: "How many meals do you eat per day?", Category: "lifestyle", Difficulty: 1, MinAnswer: 1, MaxAnswer: 6},
		{Text: "How many different apps do you use daily?", Category: "lifestyle", Difficulty: 2, MinAnswer: 3, MaxAnswer: 25},
		{Text: "How many hours do you work per day?", Category: "lifestyle", Difficulty: 1, MinAnswer: 4, MaxAnswer: 16},
		{Text: "How many times do you eat out per week?", Category: "lifestyle", Difficulty: 1, MinAnswer: 0, MaxAnswer: 14},
		{Text: "On a scale of 1-10, how much do you enjoy cooking?", Category: "preferences", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "On a scale of 1-10, how organized are you?", Category: "preferences", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "On a scale of 1-10, how much do you like spicy food?", Category: "preferences", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "On a scale of 1-10, how introverted are you?", Category: "preferences", Difficulty: 2, MinAnswer: 1, MaxAnswer: 10},
		{Text: "On a scale of 1-10, how much do you enjoy horror movies?", Category: "preferences", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "On a scale of 1-10, how competitive are you?", Category: "preferences", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "How many different countries have you visited?", Category: "experiences", Difficulty: 2, MinAnswer: 0, MaxAnswer: 30},
		{Text: "How many jobs have you had in your lifetime?", Category: "experiences", Difficulty: 2, MinAnswer: 0, MaxAnswer: 15},
		{Text: "How many concerts have you attended?", Category: "experiences", Difficulty: 2, MinAnswer: 0, MaxAnswer: 50},
		{Text: "How many different cities have you lived in?", Category: "experiences", Difficulty: 2, MinAnswer: 1, MaxAnswer: 10},
		{Text: "How many languages can you speak conversationally?", Category: "experiences", Difficulty: 2, MinAnswer: 1, MaxAnswer: 8},
		{Text: "How many times have you been on an airplane?", Category: "experiences", Difficulty: 3, MinAnswer: 0, MaxAnswer: 100},
		{Text: "How many superpowers would you want to have?", Category: "hypothetical", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "How many people would you invite to your ideal dinner party?", Category: "hypothetical", Difficulty: 1, MinAnswer: 2, MaxAnswer: 20},
		{Text: "How many wishes would you ask for from a genie?", Category: "hypothetical", Difficulty: 1, MinAnswer: 1, MaxAnswer: 100},
		{Text: "How many months would you want to travel around the world?", Category: "hypothetical", Difficulty: 2, MinAnswer: 1, MaxAnswer: 24},
		{Text: "How many pets would be ideal to have?", Category: "hypothetical", Difficulty: 1, MinAnswer: 0, MaxAnswer: 10},
	}
}

// SeedDecoys is the built-in decoy catalog handed to odd players.
func SeedDecoys() []model.Question {
	return []model.Question{
		{Text: "Pick a number between 1 and 10.", Category: "general", Difficulty: 1, MinAnswer: 1, MaxAnswer: 10},
		{Text: "How many siblings do you have?", Category: "general", Difficulty: 1, MinAnswer: 0, MaxAnswer: 10},
		{Text: "How many letters are in your first name?", Category: "general", Difficulty: 1, MinAnswer: 2, MaxAnswer: 15},
		{Text: "What day of the month were you born on?", Category: "general", Difficulty: 1, MinAnswer: 1, MaxAnswer: 31},
		{Text: "How many hours ago did you last eat?", Category: "general", Difficulty: 1, MinAnswer: 0, MaxAnswer: 24},
		{Text: "How many browser tabs do you have open right now?", Category: "general", Difficulty: 1, MinAnswer: 0, MaxAnswer: 50},
		{Text: "How many keys are on your keychain?", Category: "general", Difficulty: 1, MinAnswer: 0, MaxAnswer: 20},
		{Text: "How many plants are in the room you are in?", Category: "general", Difficulty: 1, MinAnswer: 0, MaxAnswer: 15},
	}
}
