// Package mandel holds the types shared by the fractal renderer, its
// command line and its websocket stream: render requests and options,
// progress and tile observer hooks, stream events and named views.
package mandel

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// View is a window onto the complex plane: a center and the plane width
// shown across the image. Values are decimal text so deep views keep every
// digit until a numeric tier parses them.
type View struct {
	CenterX string `json:"center_x"`
	CenterY string `json:"center_y"`
	Scale   string `json:"scale"`
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// The whole set
	FullSet = View{CenterX: "-0.5", CenterY: "0", Scale: "4"}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = View{CenterX: "-0.75", CenterY: "0.1", Scale: "0.1"}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = View{CenterX: "-1.8", CenterY: "-0.06", Scale: "0.1"}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = View{CenterX: "-0.74275", CenterY: "0.13175", Scale: "0.0015"}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = View{CenterX: "-0.7465", CenterY: "0.0965", Scale: "0.003"}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = View{CenterX: "-0.7375", CenterY: "0.1825", Scale: "0.005"}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = View{CenterX: "-1.73825", CenterY: "-0.02275", Scale: "0.0015"}

	// Deep Seahorse – far past float64 resolution, needs the arbitrary tier
	DeepSeahorse = View{
		CenterX: "-0.743643887037158704752191506114774",
		CenterY: "0.131825904205311970493132056385139",
		Scale:   "1e-25",
	}
)

var landmarks = map[string]View{
	"full":                    FullSet,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
	"deep-seahorse":           DeepSeahorse,
}

// LandmarkNames lists the named views in sorted order.
func LandmarkNames() []string {
	return slices.Sorted(maps.Keys(landmarks))
}

// Landmark looks up a named view.
func Landmark(name string) (View, error) {
	v, ok := landmarks[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return View{}, fmt.Errorf("unknown landmark %q", name)
	}
	return v, nil
}

// Apply points r at the view.
func (v View) Apply(r *RenderRequest) {
	r.CenterX = v.CenterX
	r.CenterY = v.CenterY
	r.Scale = v.Scale
}
