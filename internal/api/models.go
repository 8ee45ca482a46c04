package api

import (
	"libdb.so/ledman/animation"
	"libdb.so/ledman/control"
	"libdb.so/ledman/internal/led"
)

// StatusData is what the strip is currently doing.
type StatusData struct {
	Mode          string       `json:"mode" doc:"Current mode"`
	Animation     int          `json:"animation" doc:"Selected animation"`
	AnimationName string       `json:"animation_name" doc:"Name of what is being shown"`
	Brightness    uint8        `json:"brightness" doc:"Requested brightness"`
	Color         led.HSVColor `json:"color" doc:"Requested solid color"`
	Temperature   string       `json:"temperature,omitempty" doc:"Last temperature reading"`
}

// StatusResponse is the response of every control endpoint.
type StatusResponse struct {
	Body StatusData
}

func newStatus(ch *control.Channel) *StatusResponse {
	return &StatusResponse{
		Body: StatusData{
			Mode:          ch.Mode().String(),
			Animation:     int(ch.Animation()),
			AnimationName: ch.Status().Animation(),
			Brightness:    ch.Brightness(),
			Color:         ch.Color(),
			Temperature:   ch.Status().Temperature(),
		},
	}
}

// ModeRequest switches the mode.
type ModeRequest struct {
	Body struct {
		Mode string `json:"mode" enum:"bright,animation,solid_color,off" example:"animation" doc:"Mode to switch to"`
	}
}

// AnimationRequest selects an animation.
type AnimationRequest struct {
	Body struct {
		ID int `json:"id" minimum:"-1" maximum:"13" example:"9" doc:"Animation to select; -1 clears the strip and 0 leaves it as is"`
	}
}

// BrightnessRequest applies a brightness.
type BrightnessRequest struct {
	Body struct {
		Brightness int `json:"brightness" minimum:"24" maximum:"255" example:"180" doc:"Brightness to apply"`
	}
}

// ColorRequest shows a solid color given in HSV.
type ColorRequest struct {
	Body struct {
		H int `json:"h" minimum:"0" maximum:"255" doc:"Hue"`
		S int `json:"s" minimum:"0" maximum:"255" doc:"Saturation"`
		V int `json:"v" minimum:"0" maximum:"255" doc:"Value"`
	}
}

// HexColorRequest shows a solid color given as a hex code.
type HexColorRequest struct {
	Body struct {
		Hex string `json:"hex" pattern:"^#?[0-9a-fA-F]{6}$" example:"#ff8800" doc:"Color as a hex code"`
	}
}

// AnimationsResponse lists the animations.
type AnimationsResponse struct {
	Body struct {
		Animations []animation.Entry `json:"animations" doc:"Selectable animations"`
	}
}

// AboutData describes the device.
type AboutData struct {
	HostName     string `json:"host_name"`
	FriendlyName string `json:"friendly_name"`
	Version      string `json:"version"`
	DeviceFamily string `json:"device_family"`
	Description  string `json:"description"`
	Uptime       string `json:"uptime"`
	Animation    string `json:"animation"`
	Temperature  string `json:"temperature,omitempty"`
}

// AboutResponse is the response of the about endpoint.
type AboutResponse struct {
	Body AboutData
}
