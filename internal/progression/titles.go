package progression

// Title is the rank label derived from a hero level.
type Title string

const (
	TitleFreshSpawn           Title = "Fresh Spawn"
	TitleApprenticeAdventurer Title = "Apprentice Adventurer"
	TitleJourneymanSeeker     Title = "Journeyman Seeker"
	TitleVeteranWarrior       Title = "Veteran Warrior"
	TitleEliteChampion        Title = "Elite Champion"
	TitleLegendaryHero        Title = "Legendary Hero"
	TitleMythicalOverlord     Title = "Mythical Overlord"
	TitleAscendedOne          Title = "Ascended One"
)

type rung struct {
	minLevel int
	title    Title
}

// ladder is ordered from the highest threshold down.
var ladder = []rung{
	{100, TitleAscendedOne},
	{76, TitleMythicalOverlord},
	{51, TitleLegendaryHero},
	{36, TitleEliteChampion},
	{21, TitleVeteranWarrior},
	{11, TitleJourneymanSeeker},
	{6, TitleApprenticeAdventurer},
	{1, TitleFreshSpawn},
}

// TitleFor maps a level to its title. Levels below every rung get the lowest one.
func TitleFor(level int) Title {
	for _, r := range ladder {
		if level >= r.minLevel {
			return r.title
		}
	}
	return TitleFreshSpawn
}
