package lights

import "github.com/df07/go-tiled-raytracer/pkg/log"

var logger = log.New("lights")
