package animation

import (
	"strconv"
	"time"
)

// Selector selects an animation in the catalog.
type Selector int

const (
	// Clear turns the strip off.
	Clear Selector = -1
	// Idle leaves the strip as it is.
	Idle Selector = 0
)

// Animations, in the order they are numbered.
const (
	TrailSparkle Selector = iota + 1
	DotScatter
	RandomNoise
	BlueJumper
	PurpleJumper
	DotScroll
	ColorStrobe
	LeftToRightDot
	Fire
	BeatWave
	RedOcean
	InchWorm
	StarTwinkle
)

var selectorNames = map[Selector]string{
	Clear:          "Clear",
	Idle:           "Idle",
	TrailSparkle:   "Trail Sparkle",
	DotScatter:     "Dot Scatter",
	RandomNoise:    "Random Noise",
	BlueJumper:     "Blue Jumper",
	PurpleJumper:   "Purple Jumper",
	DotScroll:      "Dot Scroll",
	ColorStrobe:    "Color Strobe",
	LeftToRightDot: "Left To Right Dot",
	Fire:           "Fire",
	BeatWave:       "Beat Wave",
	RedOcean:       "Red Ocean",
	InchWorm:       "Inch Worm",
	StarTwinkle:    "Star Twinkle",
}

// IsValid returns true if s names an entry of the catalog.
func (s Selector) IsValid() bool {
	return s >= Clear && s <= StarTwinkle
}

// String returns the display name of the selector.
func (s Selector) String() string {
	if name, ok := selectorNames[s]; ok {
		return name
	}
	return "Selector(" + strconv.Itoa(int(s)) + ")"
}

// Entry describes an animation in the catalog.
type Entry struct {
	Selector Selector `json:"id"`
	Name     string   `json:"name"`
}

// Catalog holds every animation along with its private state. Each
// animation keeps its counters and timers across calls; switching away and
// back resumes from wherever it left off.
type Catalog struct {
	stage *Stage

	trail    trailSparkle
	scatter  dotScatter
	noise    bandRefresh
	blue     bandRefresh
	purple   bandRefresh
	scroll   dotScroll
	strobe   colorStrobe
	ltr      ltrDot
	fire     fire
	beat     beatWave
	redOcean bandRefresh
	worm     inchWorm
	twinkle  starTwinkle
}

// NewCatalog creates the catalog of animations drawing on the given stage.
func NewCatalog(s *Stage) *Catalog {
	c := &Catalog{stage: s}
	c.trail = newTrailSparkle(s)
	c.scatter = newDotScatter()
	c.noise = bandRefresh{hue: band{0, 255}, sat: band{120, 255}, val: band{0, 255}}
	c.blue = bandRefresh{hue: band{86, 172}, sat: band{140, 255}, val: band{1, 130}, highlight: true}
	c.purple = bandRefresh{hue: band{127, 250}, sat: band{140, 255}, val: band{1, 130}, highlight: true}
	c.scroll = newDotScroll()
	c.strobe = newColorStrobe()
	c.ltr = newLTRDot()
	c.fire = newFire(s)
	c.beat = newBeatWave()
	c.redOcean = bandRefresh{hue: band{232, 255}, sat: band{160, 255}, val: band{1, 130}, highlight: true}
	c.worm = newInchWorm(s)
	c.twinkle = newStarTwinkle()
	return c
}

// Stage returns the stage the catalog draws on.
func (c *Catalog) Stage() *Stage { return c.stage }

// Render runs one step of the selected animation. Clear turns the strip off;
// Idle and unknown selectors do nothing.
func (c *Catalog) Render(sel Selector, now time.Time) {
	s := c.stage
	switch sel {
	case Clear:
		s.Clear()
	case Idle:
	case TrailSparkle:
		c.trail.render(s, now)
	case DotScatter:
		c.scatter.render(s, now)
	case RandomNoise:
		c.noise.render(s)
	case BlueJumper:
		c.blue.render(s)
	case PurpleJumper:
		c.purple.render(s)
	case DotScroll:
		c.scroll.render(s, now)
	case ColorStrobe:
		c.strobe.render(s, now)
	case LeftToRightDot:
		c.ltr.render(s, now)
	case Fire:
		c.fire.render(s)
	case BeatWave:
		c.beat.render(s, now)
	case RedOcean:
		c.redOcean.render(s)
	case InchWorm:
		c.worm.render(s, now)
	case StarTwinkle:
		c.twinkle.render(s, now)
	}
}

// Name returns the display name of the selected animation, or an empty
// string if sel is unknown.
func (c *Catalog) Name(sel Selector) string {
	return selectorNames[sel]
}

// List returns every animation in the catalog, in selector order. Clear and
// Idle are not included.
func (c *Catalog) List() []Entry {
	return List()
}

// List returns every animation selector with its name, in selector order.
// Clear and Idle are not included.
func List() []Entry {
	entries := make([]Entry, 0, int(StarTwinkle))
	for sel := TrailSparkle; sel <= StarTwinkle; sel++ {
		entries = append(entries, Entry{
			Selector: sel,
			Name:     selectorNames[sel],
		})
	}
	return entries
}
