package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/primitive"
	"github.com/chazu/facet/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms facet Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: add-face -> add_face
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMesh wraps a mesh that has been added to the scene.
type sexpMesh struct {
	m *mesh.Mesh
}

func (s *sexpMesh) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(mesh %q %dv %df)", s.m.Name, s.m.VertexCount(), s.m.FaceCount())
}
func (s *sexpMesh) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid that has not been meshed yet.
type sexpSolid struct {
	s kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	lo, hi := s.s.BoundingBox()
	size := hi.Sub(lo)
	return fmt.Sprintf("(solid %.1fx%.1fx%.1f)", size.X, size.Y, size.Z)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

func sexpInt(n int) *zygo.SexpInt {
	return &zygo.SexpInt{Val: int64(n)}
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// floatKW returns the number stored under key, or def when key is absent.
func (a kwArgs) floatKW(key string, def float64) (float64, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// intKW returns the integer stored under key, or def when key is absent.
func (a kwArgs) intKW(key string, def int) (int, error) {
	v, ok := a.kw[key]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_flat) and plain strings ("flat").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toMesh extracts a mesh from a sexpMesh.
func toMesh(s zygo.Sexp) (*mesh.Mesh, error) {
	if m, ok := s.(*sexpMesh); ok {
		return m.m, nil
	}
	return nil, fmt.Errorf("expected mesh, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a kernel solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.s, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 reads either a single (vec3 ...) or three numbers.
func toVec3(args []zygo.Sexp) (v3.Vec, error) {
	switch len(args) {
	case 1:
		if v, ok := args[0].(*sexpVec3); ok {
			return v.vec, nil
		}
		return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", args[0], args[0].SexpString(nil))
	case 3:
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return v3.Vec{}, fmt.Errorf("%c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return v3.Vec{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3 or 3 numbers, got %d arguments", len(args))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toVertexIDs reads face corners given inline or as one list.
func toVertexIDs(args []zygo.Sexp) ([]mesh.VertexID, error) {
	if len(args) == 1 {
		items, err := sexpListToSlice(args[0])
		if err != nil {
			return nil, err
		}
		args = items
	}
	ids := make([]mesh.VertexID, 0, len(args))
	for i, a := range args {
		n, err := toInt(a)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		// VertexID is int32; larger values would wrap onto real vertices.
		if n < 0 || n > math.MaxInt32 {
			return nil, fmt.Errorf("vertex %d: %w %d", i, mesh.ErrUnknownVertex, n)
		}
		ids = append(ids, mesh.VertexID(n))
	}
	return ids, nil
}

func degToRad(v v3.Vec) v3.Vec {
	return v.MulScalar(math.Pi / 180)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder collects the results of one evaluation.
type builder struct {
	scene   *scene.Scene
	kernel  kernel.Kernel
	shading mesh.Shading
}

// add applies the default shading to m and places it in the scene.
func (b *builder) add(m *mesh.Mesh) (zygo.Sexp, error) {
	m.SetShading(b.shading)
	if _, err := b.scene.Add(m); err != nil {
		return zygo.SexpNull, err
	}
	return &sexpMesh{m: m}, nil
}

// roundShape parses "name" :segments :radius [:height] for the round
// primitives.
func roundShape(fn string, args []zygo.Sexp) (name string, segments int, radius, height float64, err error) {
	pa := parseArgs(args)
	if len(pa.positional) < 1 {
		return "", 0, 0, 0, fmt.Errorf("%s requires a name argument", fn)
	}
	if name, err = toString(pa.positional[0]); err != nil {
		return "", 0, 0, 0, fmt.Errorf("%s: name: %w", fn, err)
	}
	if segments, err = pa.intKW("segments", 32); err != nil {
		return "", 0, 0, 0, fmt.Errorf("%s: %w", fn, err)
	}
	if radius, err = pa.floatKW("radius", 0.5); err != nil {
		return "", 0, 0, 0, fmt.Errorf("%s: %w", fn, err)
	}
	if height, err = pa.floatKW("height", 1); err != nil {
		return "", 0, 0, 0, fmt.Errorf("%s: %w", fn, err)
	}
	return name, segments, radius, height, nil
}

// registerBuiltins installs all facet DSL builtins into a zygomys environment.
// The builtins populate b.scene during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (mesh "name")
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("mesh requires a name argument")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: name: %w", err)
		}
		return b.add(mesh.New(meshName))
	})

	// -----------------------------------------------------------------------
	// (vertex m x y z) or (vertex m (vec3 x y z)) -> vertex index
	// -----------------------------------------------------------------------
	env.AddFunction("vertex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("vertex requires a mesh and a position")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
		p, err := toVec3(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex: %w", err)
		}
		return sexpInt(int(m.AddVertex(p))), nil
	})

	// -----------------------------------------------------------------------
	// (face m v0 v1 v2 ...) or (face m (list v0 v1 v2 ...)) -> face index
	// -----------------------------------------------------------------------
	env.AddFunction("face", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("face requires a mesh and vertex indices")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: %w", err)
		}
		ids, err := toVertexIDs(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: %w", err)
		}
		f, err := m.AddFace(ids...)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face: %w", err)
		}
		return sexpInt(int(f)), nil
	})

	// -----------------------------------------------------------------------
	// (cube "name")
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("cube requires a name argument")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: name: %w", err)
		}
		return b.add(primitive.Cube(meshName))
	})

	// -----------------------------------------------------------------------
	// (cylinder "name" :segments 32 :radius 0.5 :height 1)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		meshName, segments, radius, height, err := roundShape("cylinder", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		m, err := primitive.Cylinder(meshName, segments, radius, height)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(m)
	})

	// -----------------------------------------------------------------------
	// (cone "name" :segments 32 :radius 0.5 :height 1)
	// -----------------------------------------------------------------------
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		meshName, segments, radius, height, err := roundShape("cone", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		m, err := primitive.Cone(meshName, segments, radius, height)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(m)
	})

	// -----------------------------------------------------------------------
	// (circle "name" :segments 32 :radius 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		meshName, segments, radius, _, err := roundShape("circle", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		m, err := primitive.Circle(meshName, segments, radius)
		if err != nil {
			return zygo.SexpNull, err
		}
		return b.add(m)
	})

	// -----------------------------------------------------------------------
	// (plane "name" :size 1)
	// -----------------------------------------------------------------------
	env.AddFunction("plane", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("plane requires a name argument")
		}
		meshName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: name: %w", err)
		}
		size, err := pa.floatKW("size", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("plane: %w", err)
		}
		if size <= 0 {
			return zygo.SexpNull, fmt.Errorf("plane: size %.4f must be positive", size)
		}
		return b.add(primitive.Plane(meshName, size))
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := toVec3(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (translate target x y z) moves a mesh or a solid.
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a target and an offset")
		}
		d, err := toVec3(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		switch t := args[0].(type) {
		case *sexpMesh:
			t.m.Translate(d)
			return t, nil
		case *sexpSolid:
			return &sexpSolid{s: b.kernel.Translate(t.s, d.X, d.Y, d.Z)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("translate: expected mesh or solid, got %T", args[0])
	})

	// -----------------------------------------------------------------------
	// (rotate target x y z) rotates a mesh or a solid by degrees.
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a target and angles")
		}
		a, err := toVec3(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		switch t := args[0].(type) {
		case *sexpMesh:
			t.m.Rotate(degToRad(a))
			return t, nil
		case *sexpSolid:
			return &sexpSolid{s: b.kernel.Rotate(t.s, a.X, a.Y, a.Z)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("rotate: expected mesh or solid, got %T", args[0])
	})

	// -----------------------------------------------------------------------
	// (scale m x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a mesh and factors")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		f, err := toVec3(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		m.ScaleBy(f)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (shading m :smooth)
	// -----------------------------------------------------------------------
	env.AddFunction("shading", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("shading requires a mesh and :flat or :smooth")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shading: %w", err)
		}
		mode, err := toKeywordString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shading: %w", err)
		}
		s, err := mesh.ParseShading(mode)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shading: %w", err)
		}
		m.SetShading(s)
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (set-color m "#FF8800")
	//
	// Registered as "set_color"; the preprocessor rewrites set-color.
	// -----------------------------------------------------------------------
	env.AddFunction("set_color", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-color requires a mesh and a color")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-color: %w", err)
		}
		color, err := toString(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-color: %w", err)
		}
		obj := b.scene.Lookup(m.Name)
		if obj == nil || obj.Mesh != m {
			return zygo.SexpNull, fmt.Errorf("set-color: mesh %q is not in the scene", m.Name)
		}
		obj.Color = color
		return args[0], nil
	})

	// -----------------------------------------------------------------------
	// (vertex-count m), (face-count m)
	// -----------------------------------------------------------------------
	env.AddFunction("vertex_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("vertex-count requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vertex-count: %w", err)
		}
		return sexpInt(m.VertexCount()), nil
	})
	env.AddFunction("face_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("face-count requires a mesh")
		}
		m, err := toMesh(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("face-count: %w", err)
		}
		return sexpInt(m.FaceCount()), nil
	})

	registerSolidBuiltins(env, b)
}

// registerSolidBuiltins installs the kernel-backed solid builtins. Solids
// are implicit until (solid "name" s) meshes them into the scene.
func registerSolidBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (box x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		size, err := toVec3(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
			return zygo.SexpNull, fmt.Errorf("box: dimensions must be positive, got %v", size)
		}
		return &sexpSolid{s: b.kernel.Box(size.X, size.Y, size.Z)}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere r)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a radius")
		}
		r, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: radius: %w", err)
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("sphere: radius %.4f must be positive", r)
		}
		return &sexpSolid{s: b.kernel.Sphere(r)}, nil
	})

	// -----------------------------------------------------------------------
	// (rod height radius), a solid cylinder along Z
	// -----------------------------------------------------------------------
	env.AddFunction("rod", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("rod requires a height and a radius")
		}
		h, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rod: height: %w", err)
		}
		r, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rod: radius: %w", err)
		}
		if h <= 0 || r <= 0 {
			return zygo.SexpNull, fmt.Errorf("rod: height and radius must be positive")
		}
		return &sexpSolid{s: b.kernel.Cylinder(h, r)}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b), (difference a b), (intersection a b)
	// -----------------------------------------------------------------------
	booleans := map[string]func(a, c kernel.Solid) kernel.Solid{
		"union":        b.kernel.Union,
		"difference":   b.kernel.Difference,
		"intersection": b.kernel.Intersection,
	}
	for op, apply := range booleans {
		env.AddFunction(op, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 solids, got %d", op, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			c, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			return &sexpSolid{s: apply(a, c)}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (solid "name" s) meshes s and adds it to the scene.
	// -----------------------------------------------------------------------
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name and a solid expression")
		}
		meshName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}
		s, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: %w", err)
		}
		m, err := b.kernel.ToMesh(s, meshName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: %w", err)
		}
		return b.add(m)
	})
}
