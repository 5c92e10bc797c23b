package catalog

// Default is the built-in career assessment.
var Default = MustNew(defaultSections, defaultQuestions)

// ValueRankingQuestionID is the ranked top-3 value question.
const ValueRankingQuestionID = "values_rank"

var defaultSections = []Section{
	{ID: SectionWarmUp, Title: "Warm-up", Intro: "A couple of easy questions to get started. There are no wrong answers."},
	{ID: SectionInterests, Title: "Interests", Intro: "Pick what sounds most like you in each situation. Go with your first instinct."},
	{ID: SectionPersonality, Title: "Personality", Intro: "Rate how well each statement describes you most of the time."},
	{ID: SectionAptitude, Title: "Aptitude", Intro: "Short puzzles with one correct answer each. Take your time."},
	{ID: SectionSkills, Title: "Skills", Intro: "Tell us how confident you feel about each skill today."},
	{ID: SectionValues, Title: "Values", Intro: "Rate what matters to you in work, then choose your top three."},
	{ID: SectionLearningStyle, Title: "Learning style", Intro: "How do you prefer to take in new information?"},
	{ID: SectionGoals, Title: "Goals", Intro: "Last section. Tell us where you would like to go next."},
}

func scenario(id, text string, opts ...Option) *ScenarioChoice {
	return &ScenarioChoice{Base: Base{ID: id, Section: SectionInterests, Text: text}, Options: opts}
}

func themed(id string, theme InterestCode, text string) Option {
	return Option{ID: id, Text: text, Theme: theme}
}

func personality(id string, trait Trait, reverse bool, text string) *RatingScale {
	return &RatingScale{
		Base:    Base{ID: id, Section: SectionPersonality, Text: text},
		Scale:   ScaleAgreement,
		Trait:   trait,
		Reverse: reverse,
	}
}

func aptitude(id string, domain AptitudeDomain, correct, text string, opts ...Option) *SingleChoice {
	return &SingleChoice{
		Base:            Base{ID: id, Section: SectionAptitude, Text: text},
		Options:         opts,
		CorrectOptionID: correct,
		Aptitude:        domain,
	}
}

func styled(id string, text string, v, a, r, k string) *SingleChoice {
	return &SingleChoice{
		Base: Base{ID: id, Section: SectionLearningStyle, Text: text},
		Options: []Option{
			{ID: "visual", Text: v, LearningStyle: StyleVisual},
			{ID: "auditory", Text: a, LearningStyle: StyleAuditory},
			{ID: "reading", Text: r, LearningStyle: StyleReading},
			{ID: "kinesthetic", Text: k, LearningStyle: StyleKinesthetic},
		},
	}
}

func rated(id string, section SectionID, scale ScaleType, text string) *RatingScale {
	return &RatingScale{Base: Base{ID: id, Section: section, Text: text}, Scale: scale}
}

func opt(id, text string) Option { return Option{ID: id, Text: text} }

var defaultQuestions = []Question{
	// Warm-up
	&SingleChoice{
		Base: Base{ID: "warm_feeling", Section: SectionWarmUp, Text: "How do you feel when you think about your future career?"},
		Options: []Option{
			opt("excited", "Excited"),
			opt("curious", "Curious"),
			opt("unsure", "Unsure"),
			opt("anxious", "A bit anxious"),
		},
	},
	&FreeText{
		Base:        Base{ID: "warm_free_time", Section: SectionWarmUp, Text: "What do you enjoy doing in your free time?"},
		Placeholder: "Hobbies, games, sports, anything",
		MaxLength:   500,
	},

	// Interests
	scenario("int_weekend", "You have a free Saturday. Which plan sounds best?",
		themed("fix", Realistic, "Repair a bike or build something in the garage"),
		themed("research", Investigative, "Read up on an unsolved science mystery"),
		themed("create", Artistic, "Paint, write or make music"),
		themed("volunteer", Social, "Volunteer at a community center"),
		themed("organize_event", Enterprising, "Organize an event and sell the tickets"),
		themed("plan_budget", Conventional, "Sort out your budget and plan the month"),
	),
	scenario("int_project", "Your class runs a group project. Which role do you take?",
		themed("prototype", Realistic, "Build the working prototype"),
		themed("analyze", Investigative, "Collect and analyze the data"),
		themed("design", Artistic, "Design the look and the presentation"),
		themed("support", Social, "Make sure everyone is heard and supported"),
		themed("pitch", Enterprising, "Pitch the project to the judges"),
		themed("track", Conventional, "Keep the schedule and the records"),
	),
	scenario("int_park", "A local park is in bad shape. How do you help?",
		themed("repair", Realistic, "Repair the benches and the fences"),
		themed("investigate", Investigative, "Find out what is causing the damage"),
		themed("mural", Artistic, "Design a mural for the entrance"),
		themed("rally", Social, "Rally the neighbours to clean it up together"),
		themed("fundraise", Enterprising, "Raise money and lobby the city council"),
		themed("maintenance_plan", Conventional, "Draft a maintenance plan and budget"),
	),
	scenario("int_shadow", "You can shadow a professional for a day. Who do you pick?",
		themed("electrician", Realistic, "An electrician or a mechanic"),
		themed("scientist", Investigative, "A lab scientist"),
		themed("designer", Artistic, "A graphic designer"),
		themed("nurse", Social, "A nurse or a teacher"),
		themed("founder", Enterprising, "A startup founder"),
		themed("accountant", Conventional, "An accountant"),
	),
	scenario("int_club", "Which school club would you join?",
		themed("robotics", Realistic, "Robotics"),
		themed("science_olympiad", Investigative, "Science olympiad"),
		themed("drama", Artistic, "Drama"),
		themed("peer_mentoring", Social, "Peer mentoring"),
		themed("debate", Enterprising, "Debate and business"),
		themed("library", Conventional, "Library and archives"),
		opt("none", "None of these"),
	),
	scenario("int_hours", "Which task could you happily do for hours?",
		themed("outdoors", Realistic, "Working outdoors with tools or animals"),
		themed("puzzles", Investigative, "Solving tricky puzzles"),
		themed("storytelling", Artistic, "Telling stories or making videos"),
		themed("helping", Social, "Helping a friend through a hard time"),
		themed("leading", Enterprising, "Leading a team toward a goal"),
		themed("spreadsheets", Conventional, "Keeping a collection perfectly organized"),
	),

	// Personality
	personality("pers_openness_1", Openness, false, "I enjoy exploring new ideas, even unusual ones."),
	personality("pers_openness_2", Openness, false, "I like trying activities I have never done before."),
	personality("pers_conscientiousness_1", Conscientiousness, false, "I finish tasks on time, even boring ones."),
	personality("pers_conscientiousness_2", Conscientiousness, false, "I keep my things and plans well organized."),
	personality("pers_extraversion_1", Extraversion, false, "I feel energized after spending time with a group."),
	personality("pers_extraversion_2", Extraversion, false, "I am comfortable starting conversations with strangers."),
	personality("pers_agreeableness_1", Agreeableness, false, "I go out of my way to help others."),
	personality("pers_agreeableness_2", Agreeableness, false, "I try to see things from other people's point of view."),
	personality("pers_neuroticism_1", Neuroticism, false, "I often worry about things that might go wrong."),
	personality("pers_neuroticism_2", Neuroticism, true, "I stay calm under pressure."),

	// Aptitude
	aptitude("apt_verbal_1", AptitudeVerbal, "b", "Choose the word closest in meaning to \"candid\".",
		opt("a", "Guarded"), opt("b", "Frank"), opt("c", "Clever"), opt("d", "Brief"),
	),
	aptitude("apt_verbal_2", AptitudeVerbal, "c", "Book is to reading as fork is to ...",
		opt("a", "Drawing"), opt("b", "Writing"), opt("c", "Eating"), opt("d", "Stirring"),
	),
	aptitude("apt_numerical_1", AptitudeNumerical, "b", "What comes next: 2, 6, 12, 20, 30, ?",
		opt("a", "40"), opt("b", "42"), opt("c", "44"), opt("d", "36"),
	),
	aptitude("apt_numerical_2", AptitudeNumerical, "b", "A jacket costs 80 after a 20% discount. What was the original price?",
		opt("a", "96"), opt("b", "100"), opt("c", "64"), opt("d", "120"),
	),
	aptitude("apt_abstract_1", AptitudeAbstract, "c", "Which shape completes the pattern: circle, triangle, square, circle, triangle, ?",
		opt("a", "Circle"), opt("b", "Triangle"), opt("c", "Square"), opt("d", "Diamond"),
	),
	aptitude("apt_abstract_2", AptitudeAbstract, "a", "All bloops are razzies and all razzies are lazzies. Are all bloops lazzies?",
		opt("a", "Yes"), opt("b", "No"), opt("c", "Cannot tell"),
	),

	// Skills
	rated("skill_communication", SectionSkills, ScaleConfidence, "Explaining ideas clearly to others"),
	rated("skill_problem_solving", SectionSkills, ScaleConfidence, "Breaking a hard problem into smaller steps"),
	rated("skill_technical", SectionSkills, ScaleConfidence, "Using tools, software or machines"),
	rated("skill_creativity", SectionSkills, ScaleConfidence, "Coming up with original ideas"),
	rated("skill_leadership", SectionSkills, ScaleConfidence, "Getting a group to work together"),
	&Challenge{
		Base:      Base{ID: "skill_challenge", Section: SectionSkills, Text: "Describe a problem you solved recently and how you approached it."},
		FollowUp:  "Looking back, what would you do differently next time?",
		MaxLength: 2000,
	},

	// Values
	rated("value_security", SectionValues, ScaleImportance, "Job security"),
	rated("value_creativity", SectionValues, ScaleImportance, "Room for creativity"),
	rated("value_helping", SectionValues, ScaleImportance, "Helping other people"),
	rated("value_income", SectionValues, ScaleImportance, "A high income"),
	rated("value_autonomy", SectionValues, ScaleImportance, "Deciding how I do my work"),
	rated("value_recognition", SectionValues, ScaleImportance, "Recognition for my work"),
	&RankedMultiSelect{
		Base: Base{ID: ValueRankingQuestionID, Section: SectionValues, Text: "From the values you rated highly, pick your top three in order."},
		Options: []Option{
			opt("value_security", "Job security"),
			opt("value_creativity", "Room for creativity"),
			opt("value_helping", "Helping other people"),
			opt("value_income", "A high income"),
			opt("value_autonomy", "Deciding how I do my work"),
			opt("value_recognition", "Recognition for my work"),
		},
		MaxSelections:         3,
		DependsOnPriorRatings: true,
	},

	// Learning style
	styled("ls_new_skill", "When you learn a new skill, you prefer to ...",
		"Watch a video or look at diagrams",
		"Listen to someone explain it",
		"Read the instructions",
		"Jump in and try it"),
	styled("ls_directions", "Someone gives you directions to a new place. What helps most?",
		"A map", "Hearing the directions", "Written step-by-step directions", "Walking the route once"),
	styled("ls_remember", "You remember things best when you ...",
		"See them", "Hear them", "Write them down", "Do them"),
	styled("ls_study", "Before a test you usually ...",
		"Draw mind maps and charts", "Talk it through with a friend", "Re-read and summarize notes", "Practice with real examples"),

	// Goals
	&FreeText{
		Base:        Base{ID: "goal_five_years", Section: SectionGoals, Text: "Where do you see yourself in five years?"},
		Placeholder: "Studying, working, travelling ...",
		MaxLength:   1000,
	},
	&SingleChoice{
		Base: Base{ID: "goal_next_step", Section: SectionGoals, Text: "What is your most likely next step?"},
		Options: []Option{
			opt("university", "University"),
			opt("vocational", "Vocational training"),
			opt("work", "Start working"),
			opt("gap_year", "A gap year"),
			opt("not_sure", "Not sure yet"),
		},
	},
}
