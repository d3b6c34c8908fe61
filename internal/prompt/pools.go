package prompt

// Word pools the composer draws from.
var (
	subjects = []string{
		"a cat",
		"a very old cat",
		"a committee of cats",
		"a cat who is also a lawyer",
		"a cat landlord",
		"a cat restaurant critic",
		"a cat financial advisor",
		"a cat therapist",
		"a cat who runs a nightclub",
		"a cat detective agency",
		"a cat-operated airline",
		"a council of pigeons",
		"a dog who thinks it is a CEO",
		"a parrot HR department",
		"raccoons in business suits",
		"a hamster day-trading operation",
		"a fish think tank",
		"a goose consulting firm",
		"a crow judicial system",
		"an octopus architect",
		"a retired astronaut",
		"a confused wizard",
		"a suburban dad",
		"a bored librarian",
		"a rogue dentist",
		"an overly enthusiastic intern",
		"a passive-aggressive neighbor",
		"a grandma who is a hacker",
		"a toddler dictator",
		"a mime union leader",
		"a disgraced weatherman",
		"a sleep-deprived nurse",
		"a paranoid accountant",
		"a cheerful undertaker",
		"a competitive knitter",
		"a monk with WiFi",
		"a sentient HR manual",
		"twin rival bakers",
		"a barista philosopher",
		"a plumber who speaks only in riddles",
		"a haunted spreadsheet",
		"a sentient IKEA shelf",
		"a self-aware to-do list",
		"a passive-aggressive smart fridge",
		"a printer with opinions",
		"a GPS with trust issues",
		"a microwave that judges you",
		"a roomba with ambition",
		"a thermostat cult",
		"a vending machine with feelings",
		"a traffic light support group",
		"an elevator with a podcast",
		"a doorbell with anxiety",
		"a lamp with a manifesto",
		"a clock that lies",
		"a toilet that gives TED talks",
		"a blender going through a phase",
		"a DMV for ghosts",
		"a hospital for feelings",
		"a post office for secrets",
		"a library of smells",
		"a museum of failures",
		"a bank that trades in favors",
		"a school for inanimate objects",
		"a gym for emotional muscles",
		"a church of mild inconvenience",
		"a prison for bad fonts",
		"a zoo where humans are the exhibit",
		"a spa for burnt-out AIs",
		"a fire department for mixtapes",
		"a kindergarten for retired supervillains",
		"a laundromat that washes memories",
		"a pharmacy for existential dread",
	}
	actions = []string{
		"launches a subscription service",
		"opens an online store",
		"starts a podcast",
		"runs a dating app",
		"operates a delivery service",
		"manages a hotel chain",
		"publishes a newspaper",
		"hosts a game show",
		"runs for mayor",
		"starts a crowdfunding campaign",
		"launches a cryptocurrency",
		"opens a theme park",
		"starts an airline",
		"runs a cooking show",
		"offers financial advice",
		"creates a fitness program",
		"opens a law firm",
		"starts a religion",
		"launches a space program on a budget",
		"organizes a music festival",
		"runs a tech startup",
		"opens a casino",
		"starts a fashion label",
		"creates a social network",
		"builds a city",
		"runs a reality TV show",
		"offers therapy sessions",
		"starts a revolution",
		"writes self-help books",
		"runs a bed and breakfast",
		"opens a detective agency",
		"manages a boy band",
		"runs a funeral home with a twist",
		"starts a book club",
		"launches a weather service",
		"runs a talent show",
		"opens a tattoo parlor",
		"starts an insurance company",
		"runs a pawn shop",
		"creates a language",
	}
	modifiers = []string{
		"but everything is upside down",
		"but all communication is through interpretive dance",
		"but the currency is compliments",
		"but it only operates during full moons",
		"but all reviews are written as haiku",
		"but the staff are all ghosts",
		"but everything must rhyme",
		"but the building keeps moving",
		"but customers must solve a riddle to enter",
		"but all transactions happen underwater",
		"but everything is miniature",
		"but it exists only in dreams",
		"but all documents are written in crayon",
		"but the wifi password is a dance move",
		"but it is from the year 3000",
		"but in a world where gravity is optional",
		"but everyone has amnesia",
		"but all meetings happen in a hot air balloon",
		"but cats are in charge of quality control",
		"but the soundtrack never stops",
		"but everything is cake",
		"but time runs backwards on Tuesdays",
		"but the entire thing is run from a bathtub",
		"but nothing is allowed to be beige",
		"but the dress code is medieval armor",
		"but payment is accepted in soup",
		"but every surface is covered in moss",
		"but it smells incredible for no reason",
		"but there is a live jazz band at all times",
		"but the founder is a very confident goldfish",
		"but all employees are different versions of the same person",
		"but the menu changes based on the tides",
		"but complaints are handled by a ouija board",
		"but the whole thing is inside a snow globe",
		"but mascots roam freely and cannot be stopped",
		"but cats keep knocking everything off the shelves",
		"but a cat sits on the keyboard and alters every transaction",
		"but there is always a cat sleeping on the most important document",
	}
	styleAxes = []string{
		"brutalist carnival finance",
		"retrofuturist municipal opera",
		"biohazard luxury minimalism",
		"evangelical cyberpunk folklore",
		"bureaucratic dreamcore logistics",
		"desert maximalist weather-tech",
		"nautical posthuman infomercial",
		"esoteric industrial civic branding",
		"interdimensional late-night shopping channel",
		"neo-medieval UX cult handbook",
		"pastel corporate wellness dystopia",
		"glitchcore Y2K government portal",
		"art deco space colony tourism board",
		"vaporwave dental insurance",
		"soviet constructivist SaaS platform",
		"tropical noir detective agency",
		"cottagecore military logistics",
		"Memphis Group pharmaceutical catalog",
		"Swiss International Style alien embassy",
		"psychedelic 1970s tax preparation",
		"Windows 95 luxury fashion house",
		"Bauhaus underwater real estate",
		"neon noir public library system",
		"maximalist Victorian data center",
		"flat design occult supply shop",
		"skeuomorphic cloud kingdom passport office",
		"grunge zine cryptocurrency exchange",
		"corporate Memphis existential crisis hotline",
		"geocities-era astral projection academy",
		"minimalist brutalist wedding planner",
	}
	colorDirections = []string{
		"monochrome with one violent accent color",
		"warm earth tones like terracotta, sand, and olive",
		"neon on pitch black",
		"pastel rainbow gradient everywhere",
		"newspaper black and white with red highlights",
		"deep ocean blues and bioluminescent greens",
		"sunset palette: coral, gold, purple, deep blue",
		"clinical white with surgical green accents",
		"burnt orange and midnight purple",
		"candy colors: hot pink, electric blue, lime green",
		"sepia and aged parchment tones",
		"toxic: acid green, warning yellow, hazard orange",
		"ice cold: pale blue, silver, white, frost",
		"forest: dark green, moss, bark brown, mushroom beige",
		"retrowave: magenta, cyan, chrome, dark purple",
	}
	layoutTypes = []string{
		"single column with massive typography",
		"dense dashboard grid with many small panels",
		"asymmetric magazine layout with overlapping sections",
		"full-screen sections that scroll like slides",
		"sidebar-heavy admin panel aesthetic",
		"centered narrow column like a legal document",
		"chaotic overlapping windows like a cluttered desktop",
		"card-based masonry layout",
		"split screen with contrasting halves",
		"terminal/console aesthetic with monospace everything",
		"newspaper multi-column with headlines",
		"single giant scrolling table",
	}
	siteLaws = []string{
		"All buttons must negotiate before being clicked.",
		"The footer is legally allowed to predict personal weather.",
		"Product cards must include one impossible warranty clause.",
		"Navigation links can move while the user reads them.",
		"At least one section must be authored by a nonhuman committee.",
		"Pricing tiers must include exactly one metaphysical payment method.",
		"A/B tests are run by folklore creatures with no statistical training.",
		"The hero statement must be both credible and absurd.",
		"The FAQ should contain one answer that is only a ritual.",
		"Trust badges are issued by fictional departments.",
	}
	artifacts = []string{
		"ghost cookie banner",
		"self-updating legal disclaimer",
		"hyperactive breadcrumb trail",
		"cart abandonment prophecy",
		"animated zoning permit",
		"sentient uptime graph",
		"decomposing design token registry",
		"shapeshifting search bar",
		"haunted onboarding checklist",
		"reversible terms-of-service accordion",
	}
	tabooWords = []string{
		"innovative",
		"cutting-edge",
		"revolutionary",
		"seamless",
		"next-gen",
		"user-centric",
		"synergy",
		"disruptive",
		"state-of-the-art",
		"future-proof",
	}
)
