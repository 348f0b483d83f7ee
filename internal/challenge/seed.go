package challenge

import "github.com/google/uuid"

// seedNamespace keeps seeded ids stable across processes and databases.
var seedNamespace = uuid.MustParse("6f1c3f5e-9a57-4d0b-8d7e-2b1f0c7a4e11")

func seedID(title string) string {
	return uuid.NewSHA1(seedNamespace, []byte(title)).String()
}

// Defaults returns the built-in bosses used when no challenge has been authored.
func Defaults() []Definition {
	return []Definition{
		{
			ID:               seedID("The Loop of Infinity"),
			Title:            "The Loop of Infinity",
			Description:      "A giant Ouroboros snake that eats its own tail. It traps adventurers in endless cycles.",
			Difficulty:       "Easy",
			LevelRequirement: 1,
			RewardPoints:     100,
			ProblemStatement: "Write a function `breakLoop` that returns the string 'Loop Broken' to escape the cycle.",
			StarterCode:      "function breakLoop() {\n  // Your code here\n}",
			RequiredTokens:   []string{"return", "'Loop Broken'"},
			ForbiddenTokens:  []string{"while(true)", "for(;;)"},
			Active:           true,
		},
		{
			ID:               seedID("The Null Pointer Wraith"),
			Title:            "The Null Pointer Wraith",
			Description:      "A ghostly figure that vanishes when you try to touch it, leaving only 'undefined' in its wake.",
			Difficulty:       "Medium",
			LevelRequirement: 5,
			RewardPoints:     250,
			ProblemStatement: "Write a function `checkExistence` that takes a variable `obj`. If `obj` is null or undefined, return 'Ghost Found'. Otherwise return 'Solid'.",
			StarterCode:      "function checkExistence(obj) {\n  // Your code here\n}",
			RequiredTokens:   []string{"if", "null", "undefined", "return"},
			Active:           true,
		},
		{
			ID:               seedID("The Callback Hydra"),
			Title:            "The Callback Hydra",
			Description:      "A multi-headed beast. Cut off one head, and two nested callbacks take its place!",
			Difficulty:       "Hard",
			LevelRequirement: 10,
			RewardPoints:     500,
			ProblemStatement: "Defeat the Hydra by converting this callback hell into a Promise. Write a function `slayHydra` that returns a Promise that resolves to 'Victory'.",
			StarterCode:      "function slayHydra() {\n  // Return a Promise\n}",
			RequiredTokens:   []string{"new Promise", "resolve", "Victory"},
			ForbiddenTokens:  []string{"callback"},
			Active:           true,
		},
	}
}
