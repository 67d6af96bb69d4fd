package models

// Default documents persisted on the first read of an empty singleton
// collection. Each call returns a fresh value.

func DefaultAbout() *AboutContent {
	return &AboutContent{
		Title:       "About Me",
		Subtitle:    "Developer & Designer",
		Description: "I build fast, accessible websites and applications.",
		Skills: []Skill{
			{Name: "JavaScript", Level: 90},
			{Name: "Go", Level: 80},
			{Name: "UI Design", Level: 75},
		},
		Experience: []Experience{},
		Stats:      AboutStats{YearsExperience: 5, ProjectsCompleted: 50, HappyClients: 30},
	}
}

func DefaultHome() *HomeContent {
	return &HomeContent{
		Hero: Hero{
			Title:       "Hi, I'm a Developer",
			Subtitle:    "Welcome to my portfolio",
			Description: "I craft digital experiences that people love.",
			CtaText:     "View My Work",
			CtaLink:     "/portfolio",
		},
		Highlights: []Highlight{
			{Title: "Web Development", Description: "Modern, responsive websites.", Icon: "code"},
			{Title: "UI/UX Design", Description: "Interfaces that feel right.", Icon: "design"},
			{Title: "Consulting", Description: "Technical guidance for your project.", Icon: "chat"},
		},
		FeaturedSection: FeaturedSection{Title: "Featured Projects", Subtitle: "A selection of recent work"},
		CTA: CallToAction{
			Title:      "Let's work together",
			Text:       "Have a project in mind? Get in touch.",
			ButtonText: "Contact Me",
			ButtonLink: "/contact",
		},
	}
}

func DefaultResume() *ResumeContent {
	return &ResumeContent{
		Summary:        "Experienced developer focused on building reliable products.",
		Education:      []Education{},
		Experience:     []Experience{},
		Skills:         []SkillGroup{},
		Certifications: []Certification{},
	}
}

func DefaultContact() *Contact {
	return &Contact{
		Email:           "hello@example.com",
		Phone:           "",
		Address:         "",
		Availability:    "Available for freelance work",
		FormTitle:       "Send me a message",
		FormDescription: "I usually reply within 24 hours.",
	}
}

func DefaultGeneralDetails() *GeneralDetails {
	return &GeneralDetails{
		SiteName:    "My Portfolio",
		Tagline:     "Developer & Designer",
		OwnerName:   "Your Name",
		Email:       "hello@example.com",
		SocialLinks: SocialLinks{},
		Footer:      Footer{Text: "Thanks for visiting.", CopyrightText: "All rights reserved."},
		SEO: SEO{
			MetaTitle:       "My Portfolio",
			MetaDescription: "Personal portfolio website",
			Keywords:        []string{"portfolio", "developer"},
		},
	}
}

func DefaultProcess() *ProcessContent {
	return &ProcessContent{
		Title:    "My Process",
		Subtitle: "How I turn ideas into products",
		Steps: []ProcessStep{
			{Order: 1, Title: "Discovery", Description: "Understand goals, audience and constraints.", Icon: "search"},
			{Order: 2, Title: "Design", Description: "Sketch, prototype and iterate.", Icon: "pen"},
			{Order: 3, Title: "Development", Description: "Build, test and refine.", Icon: "code"},
			{Order: 4, Title: "Launch", Description: "Deploy and support.", Icon: "rocket"},
		},
	}
}
