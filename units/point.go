package units

// Point is an integer (dbu) 2D point.
type Point struct{ X, Y int64 }

// DPoint is a floating (µm) 2D point.
type DPoint struct{ X, Y float64 }

// ToUm converts an integer point to µm under dbu.
func (p Point) ToUm(dbu Dbu) DPoint {
	return DPoint{X: dbu.ToUm(p.X), Y: dbu.ToUm(p.Y)}
}

// ToDbu converts a µm point to the nearest dbu integer point under dbu.
func (p DPoint) ToDbu(dbu Dbu) Point {
	return Point{X: dbu.ToDbu(p.X), Y: dbu.ToDbu(p.Y)}
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p+q.
func (p DPoint) Add(q DPoint) DPoint { return DPoint{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p DPoint) Sub(q DPoint) DPoint { return DPoint{p.X - q.X, p.Y - q.Y} }
