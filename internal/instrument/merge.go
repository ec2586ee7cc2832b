package instrument

// DefaultTopic applies when neither a seed nor discovery supplies one.
const DefaultTopic = "labour"

// Merge folds configured seeds into the discovered registry, in place.
//
// A seed whose ID matches a discovered record takes that record as its base;
// otherwise the base is built from the seed's title hint and reference URL.
// The seed's topic wins over the discovered one. Discovered title and source
// URL win over the seed's hints, which only fill gaps.
func Merge(discovered *Registry, seeds []Seed, defaultTopic string) *Registry {
	if defaultTopic == "" {
		defaultTopic = DefaultTopic
	}
	for _, seed := range seeds {
		base, ok := discovered.Get(seed.ID)
		var it Instrument
		if ok {
			it = base.Clone()
		} else {
			it = Instrument{ID: seed.ID}
		}
		if it.Title == "" {
			it.Title = seed.TitleHint
		}
		if it.SourceURL == "" {
			it.SourceURL = seed.MohreRef
		}
		switch {
		case seed.Topic != "":
			it.Topic = seed.Topic
		case it.Topic == "":
			it.Topic = defaultTopic
		}
		discovered.Put(it)
	}
	return discovered
}
