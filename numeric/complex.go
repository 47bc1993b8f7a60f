package numeric

// Complex is a complex number whose components live in one tier.
// The zero value is 0+0i for every tier.
type Complex[T Scalar[T]] struct {
	Re, Im T
}

// NewComplex builds a complex value from two components.
func NewComplex[T Scalar[T]](re, im T) Complex[T] {
	return Complex[T]{Re: re, Im: im}
}

// ZeroComplex returns 0+0i in the given tier.
func ZeroComplex[T Scalar[T]](t Tier[T]) Complex[T] {
	return Complex[T]{Re: t.Zero(), Im: t.Zero()}
}

// ParseComplex parses both components with the tier's parser.
func ParseComplex[T Scalar[T]](t Tier[T], re, im string) (Complex[T], error) {
	r, err := t.Parse(re)
	if err != nil {
		return Complex[T]{}, err
	}
	i, err := t.Parse(im)
	if err != nil {
		return Complex[T]{}, err
	}
	return Complex[T]{Re: r, Im: i}, nil
}

// ConvertComplex moves a complex value into another tier.
func ConvertComplex[S Scalar[S], T Scalar[T]](to Tier[T], z Complex[S]) (Complex[T], error) {
	return ParseComplex(to, z.Re.String(), z.Im.String())
}

func (a Complex[T]) Add(b Complex[T]) Complex[T] {
	return Complex[T]{Re: a.Re.Add(b.Re), Im: a.Im.Add(b.Im)}
}

// Mul is the complex product (ac−bd, ad+bc).
func (a Complex[T]) Mul(b Complex[T]) Complex[T] {
	return Complex[T]{
		Re: a.Re.Mul(b.Re).Sub(a.Im.Mul(b.Im)),
		Im: a.Re.Mul(b.Im).Add(a.Im.Mul(b.Re)),
	}
}

// MagSq is re·re + im·im, computed in the tier's own arithmetic.
func (a Complex[T]) MagSq() T {
	return a.Re.Mul(a.Re).Add(a.Im.Mul(a.Im))
}

func (a Complex[T]) String() string {
	return "(" + a.Re.String() + ", " + a.Im.String() + ")"
}
