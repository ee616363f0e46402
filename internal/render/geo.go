package render

import "math"

// centroids holds approximate geographic centers (lat, lon) for the 50
// states plus DC, used to place map labels.
var centroids = map[string][2]float64{
	"AL": {32.806671, -86.791130},
	"AK": {61.370716, -152.404419},
	"AZ": {33.729759, -111.431221},
	"AR": {34.969704, -92.373123},
	"CA": {36.116203, -119.681564},
	"CO": {39.059811, -105.311104},
	"CT": {41.597782, -72.755371},
	"DE": {39.318523, -75.507141},
	"DC": {38.897438, -77.026817},
	"FL": {27.766279, -81.686783},
	"GA": {33.040619, -83.643074},
	"HI": {21.094318, -157.498337},
	"ID": {44.240459, -114.478828},
	"IL": {40.349457, -88.986137},
	"IN": {39.849426, -86.258278},
	"IA": {42.011539, -93.210526},
	"KS": {38.526600, -96.726486},
	"KY": {37.668140, -84.670067},
	"LA": {31.169546, -91.867805},
	"ME": {44.693947, -69.381927},
	"MD": {39.063946, -76.802101},
	"MA": {42.230171, -71.530106},
	"MI": {43.326618, -84.536095},
	"MN": {45.694454, -93.900192},
	"MS": {32.741646, -89.678696},
	"MO": {38.456085, -92.288368},
	"MT": {46.921925, -110.454353},
	"NE": {41.125370, -98.268082},
	"NV": {38.313515, -117.055374},
	"NH": {43.452492, -71.563896},
	"NJ": {40.298904, -74.521011},
	"NM": {34.840515, -106.248482},
	"NY": {42.165726, -74.948051},
	"NC": {35.630066, -79.806419},
	"ND": {47.528912, -99.784012},
	"OH": {40.388783, -82.764915},
	"OK": {35.565342, -96.928917},
	"OR": {44.572021, -122.070938},
	"PA": {40.590752, -77.209755},
	"RI": {41.680893, -71.511780},
	"SC": {33.856892, -80.945007},
	"SD": {44.299782, -99.438828},
	"TN": {35.747845, -86.692345},
	"TX": {31.054487, -97.563461},
	"UT": {40.150032, -111.862434},
	"VT": {44.045876, -72.710686},
	"VA": {37.769337, -78.169968},
	"WA": {47.400902, -121.490494},
	"WV": {38.491226, -80.954453},
	"WI": {44.268543, -89.616508},
	"WY": {42.755966, -107.302490},
}

// smallStates are too small at USA map scale for an inside label; their
// labels sit outside the shape.
var smallStates = map[string]bool{
	"CT": true,
	"DE": true,
	"MA": true,
	"MD": true,
	"NH": true,
	"NJ": true,
	"RI": true,
	"VT": true,
	"DC": true,
}

const labelOffsetDegrees = 2.6

// labelPosition returns where a state's map label goes and whether it
// sits outside the shape. Small dense states get pushed away from their
// neighbors along an inverse-distance repulsion vector, so clustered
// labels fan out instead of piling on the same coastline.
func labelPosition(code string) (lat, lon float64, outside bool, ok bool) {
	c, found := centroids[code]
	if !found {
		return 0, 0, false, false
	}
	if !smallStates[code] {
		return c[0], c[1], false, true
	}

	var dLat, dLon float64
	for other, oc := range centroids {
		if other == code {
			continue
		}
		vLat := c[0] - oc[0]
		vLon := c[1] - oc[1]
		d2 := vLat*vLat + vLon*vLon
		if d2 == 0 {
			continue
		}
		dLat += vLat / d2
		dLon += vLon / d2
	}

	norm := math.Hypot(dLat, dLon)
	if norm == 0 {
		// Degenerate repulsion; push due east, off the Atlantic coast.
		dLat, dLon, norm = 0, 1, 1
	}
	lat = c[0] + dLat/norm*labelOffsetDegrees
	lon = c[1] + dLon/norm*labelOffsetDegrees
	return lat, lon, true, true
}
