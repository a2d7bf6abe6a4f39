package skeleton

import (
	"github.com/tanema/gween/ease"
)

type curveKind uint8

const (
	curveLinear curveKind = iota
	curveStepped
	curveBezier
	curveEase
)

const bezierSegments = 10

// Curve maps linear progress between two keyframes to eased progress.
// The zero value is linear.
type Curve struct {
	kind   curveKind
	points [bezierSegments * 2]float64 // sampled (x, y) pairs for bezier
	fn     ease.TweenFunc
}

// LinearCurve interpolates at constant speed.
func LinearCurve() Curve { return Curve{} }

// SteppedCurve holds the previous keyframe's value until the next one.
func SteppedCurve() Curve { return Curve{kind: curveStepped} }

// BezierCurve builds a cubic bezier from (0,0) to (1,1) with the given
// control points, sampled into straight segments.
func BezierCurve(cx1, cy1, cx2, cy2 float64) Curve {
	c := Curve{kind: curveBezier}
	for i := 1; i <= bezierSegments; i++ {
		t := float64(i) / bezierSegments
		c.points[(i-1)*2] = bezier(t, cx1, cx2)
		c.points[(i-1)*2+1] = bezier(t, cy1, cy2)
	}
	return c
}

// EaseCurve wraps a gween easing function.
func EaseCurve(fn ease.TweenFunc) Curve {
	if fn == nil {
		return Curve{}
	}
	return Curve{kind: curveEase, fn: fn}
}

// easeCurves are the named curves accepted in skeleton JSON in place of a
// bezier array.
var easeCurves = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"inBack":     ease.InBack,
	"outBack":    ease.OutBack,
	"outBounce":  ease.OutBounce,
	"outElastic": ease.OutElastic,
}

// NamedCurve returns the easing curve registered under name.
func NamedCurve(name string) (Curve, bool) {
	fn, ok := easeCurves[name]
	if !ok {
		return Curve{}, false
	}
	return EaseCurve(fn), true
}

func bezier(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

// Percent converts linear progress p in [0, 1] to curved progress.
func (c Curve) Percent(p float64) float64 {
	p = clamp01(p)
	switch c.kind {
	case curveStepped:
		return 0
	case curveEase:
		return float64(c.fn(float32(p), 0, 1, 1))
	case curveBezier:
		prevX, prevY := 0.0, 0.0
		for i := 0; i < len(c.points); i += 2 {
			x, y := c.points[i], c.points[i+1]
			if x >= p {
				if x == prevX {
					return y
				}
				return prevY + (y-prevY)*(p-prevX)/(x-prevX)
			}
			prevX, prevY = x, y
		}
		return 1
	default:
		return p
	}
}
