package ec

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// Point is an affine secp256k1 point or the identity.
type Point struct {
	x, y     secp256k1.FieldVal
	infinity bool
}

// Identity returns the point at infinity.
func Identity() Point {
	return Point{infinity: true}
}

// Generator returns the base point G.
func Generator() Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	var j secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &j)
	return fromJacobian(&j)
}

// PointFromBig builds a point from affine coordinates and checks that it
// lies on the curve.
func PointFromBig(x, y *big.Int) (Point, error) {
	fx, err := FieldElementFromBig(x)
	if err != nil {
		return Point{}, err
	}
	fy, err := FieldElementFromBig(y)
	if err != nil {
		return Point{}, err
	}
	if !secp256k1.NewPublicKey(&fx.v, &fy.v).IsOnCurve() {
		return Point{}, errors.Wrap(ErrInvalidEncoding, "point is not on curve")
	}
	return Point{x: fx.v, y: fy.v}, nil
}

// DecompressPoint recovers the point with the given x coordinate whose y
// coordinate has the requested parity.
func DecompressPoint(x FieldElement, yOdd bool) (Point, error) {
	var fx, fy secp256k1.FieldVal
	fx.Set(&x.v)
	fx.Normalize()
	if !secp256k1.DecompressY(&fx, yOdd, &fy) {
		return Point{}, errors.Wrapf(ErrInvalidEncoding, "x=%v has no square root", x.Big())
	}
	fy.Normalize()
	return Point{x: fx, y: fy}, nil
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return p.infinity
}

// X returns the affine x coordinate. The identity has coordinates (0, 0).
func (p Point) X() *big.Int {
	return feToBig(p.x)
}

// Y returns the affine y coordinate.
func (p Point) Y() *big.Int {
	return feToBig(p.y)
}

// Bytes returns x‖y, 32 bytes each.
func (p Point) Bytes() []byte {
	out := make([]byte, 64)
	if p.infinity {
		return out
	}
	x, y := p.x, p.y
	x.Normalize()
	y.Normalize()
	x.PutBytesUnchecked(out[:32])
	y.PutBytesUnchecked(out[32:])
	return out
}

// Equal compares coordinates.
func (p Point) Equal(q Point) bool {
	if p.infinity || q.infinity {
		return p.infinity == q.infinity
	}
	px, py, qx, qy := p.x, p.y, q.x, q.y
	px.Normalize()
	py.Normalize()
	qx.Normalize()
	qy.Normalize()
	return px.Equals(&qx) && py.Equals(&qy)
}

// ScalarMul returns k·p.
func ScalarMul(k Scalar, p Point) Point {
	if p.infinity || k.IsZero() {
		return Identity()
	}
	in := p.jacobian()
	var out secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&k.v, &in, &out)
	return fromJacobian(&out)
}

// ScalarBaseMul returns k·G.
func ScalarBaseMul(k Scalar) Point {
	if k.IsZero() {
		return Identity()
	}
	var out secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k.v, &out)
	return fromJacobian(&out)
}

// Add returns p + q.
func Add(p, q Point) Point {
	switch {
	case p.infinity:
		return q
	case q.infinity:
		return p
	}
	a, b := p.jacobian(), q.jacobian()
	var out secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a, &b, &out)
	return fromJacobian(&out)
}

// Double returns 2·p.
func Double(p Point) Point {
	return Add(p, p)
}

// Negate returns -p.
func Negate(p Point) Point {
	if p.infinity {
		return p
	}
	out := Point{x: p.x, y: p.y}
	out.y.Normalize()
	out.y.Negate(1).Normalize()
	return out
}

func (p Point) jacobian() secp256k1.JacobianPoint {
	var j secp256k1.JacobianPoint
	if p.infinity {
		return j
	}
	j.X.Set(&p.x)
	j.Y.Set(&p.y)
	j.Z.SetInt(1)
	return j
}

func fromJacobian(j *secp256k1.JacobianPoint) Point {
	if j.Z.IsZero() || (j.X.IsZero() && j.Y.IsZero()) {
		return Identity()
	}
	j.ToAffine()
	return Point{x: j.X, y: j.Y}
}

func feToBig(f secp256k1.FieldVal) *big.Int {
	f.Normalize()
	return new(big.Int).SetBytes(f.Bytes()[:])
}
