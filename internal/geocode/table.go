// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package geocode

import "github.com/pmatlas/pmatlas/internal/models"

// stateEntry pairs a state's center coordinate with its city sub-table.
// City keys are normalized lowercase.
type stateEntry struct {
	center models.Coordinates
	cities map[string]models.Coordinates
}

// stateTable maps US state and Canadian province codes to representative
// coordinates. City sub-tables cover the metros where the community
// concentrates; everywhere else falls back to the state center.
var stateTable = map[string]stateEntry{
	"AL": {center: models.Coordinates{Lat: 32.8067, Lng: -86.7911}},
	"AK": {center: models.Coordinates{Lat: 61.3707, Lng: -152.4044}},
	"AZ": {
		center: models.Coordinates{Lat: 33.7298, Lng: -111.4312},
		cities: map[string]models.Coordinates{
			"phoenix": {Lat: 33.4484, Lng: -112.0740},
			"tucson":  {Lat: 32.2226, Lng: -110.9747},
		},
	},
	"AR": {center: models.Coordinates{Lat: 34.9697, Lng: -92.3731}},
	"CA": {
		center: models.Coordinates{Lat: 36.1162, Lng: -119.6816},
		cities: map[string]models.Coordinates{
			"san francisco": {Lat: 37.7749, Lng: -122.4194},
			"los angeles":   {Lat: 34.0522, Lng: -118.2437},
			"san diego":     {Lat: 32.7157, Lng: -117.1611},
			"san jose":      {Lat: 37.3382, Lng: -121.8863},
			"oakland":       {Lat: 37.8044, Lng: -122.2712},
			"sacramento":    {Lat: 38.5816, Lng: -121.4944},
			"palo alto":     {Lat: 37.4419, Lng: -122.1430},
			"mountain view": {Lat: 37.3861, Lng: -122.0839},
		},
	},
	"CO": {
		center: models.Coordinates{Lat: 39.0598, Lng: -105.3111},
		cities: map[string]models.Coordinates{
			"denver":  {Lat: 39.7392, Lng: -104.9903},
			"boulder": {Lat: 40.0150, Lng: -105.2705},
		},
	},
	"CT": {center: models.Coordinates{Lat: 41.5978, Lng: -72.7554}},
	"DC": {center: models.Coordinates{Lat: 38.9072, Lng: -77.0369}},
	"DE": {center: models.Coordinates{Lat: 39.3185, Lng: -75.5071}},
	"FL": {
		center: models.Coordinates{Lat: 27.7663, Lng: -81.6868},
		cities: map[string]models.Coordinates{
			"miami":   {Lat: 25.7617, Lng: -80.1918},
			"orlando": {Lat: 28.5383, Lng: -81.3792},
			"tampa":   {Lat: 27.9506, Lng: -82.4572},
		},
	},
	"GA": {
		center: models.Coordinates{Lat: 33.0406, Lng: -83.6431},
		cities: map[string]models.Coordinates{
			"atlanta": {Lat: 33.7490, Lng: -84.3880},
		},
	},
	"HI": {center: models.Coordinates{Lat: 21.0943, Lng: -157.4983}},
	"IA": {center: models.Coordinates{Lat: 42.0115, Lng: -93.2105}},
	"ID": {center: models.Coordinates{Lat: 44.2405, Lng: -114.4788}},
	"IL": {
		center: models.Coordinates{Lat: 40.3495, Lng: -88.9861},
		cities: map[string]models.Coordinates{
			"chicago": {Lat: 41.8781, Lng: -87.6298},
		},
	},
	"IN": {center: models.Coordinates{Lat: 39.8494, Lng: -86.2583}},
	"KS": {center: models.Coordinates{Lat: 38.5266, Lng: -96.7265}},
	"KY": {center: models.Coordinates{Lat: 37.6681, Lng: -84.6701}},
	"LA": {center: models.Coordinates{Lat: 31.1695, Lng: -91.8678}},
	"MA": {
		center: models.Coordinates{Lat: 42.2302, Lng: -71.5301},
		cities: map[string]models.Coordinates{
			"boston":    {Lat: 42.3601, Lng: -71.0589},
			"cambridge": {Lat: 42.3736, Lng: -71.1097},
		},
	},
	"MD": {center: models.Coordinates{Lat: 39.0639, Lng: -76.8021}},
	"ME": {center: models.Coordinates{Lat: 44.6939, Lng: -69.3819}},
	"MI": {
		center: models.Coordinates{Lat: 43.3266, Lng: -84.5361},
		cities: map[string]models.Coordinates{
			"detroit":   {Lat: 42.3314, Lng: -83.0458},
			"ann arbor": {Lat: 42.2808, Lng: -83.7430},
		},
	},
	"MN": {
		center: models.Coordinates{Lat: 45.6945, Lng: -93.9002},
		cities: map[string]models.Coordinates{
			"minneapolis": {Lat: 44.9778, Lng: -93.2650},
		},
	},
	"MO": {center: models.Coordinates{Lat: 38.4561, Lng: -92.2884}},
	"MS": {center: models.Coordinates{Lat: 32.7416, Lng: -89.6787}},
	"MT": {center: models.Coordinates{Lat: 46.9219, Lng: -110.4544}},
	"NC": {
		center: models.Coordinates{Lat: 35.6301, Lng: -79.8064},
		cities: map[string]models.Coordinates{
			"charlotte": {Lat: 35.2271, Lng: -80.8431},
			"raleigh":   {Lat: 35.7796, Lng: -78.6382},
			"durham":    {Lat: 35.9940, Lng: -78.8986},
		},
	},
	"ND": {center: models.Coordinates{Lat: 47.5289, Lng: -99.7840}},
	"NE": {center: models.Coordinates{Lat: 41.1254, Lng: -98.2681}},
	"NH": {center: models.Coordinates{Lat: 43.4525, Lng: -71.5639}},
	"NJ": {center: models.Coordinates{Lat: 40.2989, Lng: -74.5210}},
	"NM": {center: models.Coordinates{Lat: 34.8405, Lng: -106.2485}},
	"NV": {
		center: models.Coordinates{Lat: 38.3135, Lng: -117.0554},
		cities: map[string]models.Coordinates{
			"las vegas": {Lat: 36.1699, Lng: -115.1398},
			"reno":      {Lat: 39.5296, Lng: -119.8138},
		},
	},
	"NY": {
		center: models.Coordinates{Lat: 42.1657, Lng: -74.9481},
		cities: map[string]models.Coordinates{
			"new york": {Lat: 40.7128, Lng: -74.0060},
			"brooklyn": {Lat: 40.6782, Lng: -73.9442},
			"buffalo":  {Lat: 42.8864, Lng: -78.8784},
		},
	},
	"OH": {
		center: models.Coordinates{Lat: 40.3888, Lng: -82.7649},
		cities: map[string]models.Coordinates{
			"columbus":  {Lat: 39.9612, Lng: -82.9988},
			"cleveland": {Lat: 41.4993, Lng: -81.6944},
		},
	},
	"OK": {center: models.Coordinates{Lat: 35.5653, Lng: -96.9289}},
	"OR": {
		center: models.Coordinates{Lat: 44.5720, Lng: -122.0709},
		cities: map[string]models.Coordinates{
			"portland": {Lat: 45.5152, Lng: -122.6784},
		},
	},
	"PA": {
		center: models.Coordinates{Lat: 40.5908, Lng: -77.2098},
		cities: map[string]models.Coordinates{
			"philadelphia": {Lat: 39.9526, Lng: -75.1652},
			"pittsburgh":   {Lat: 40.4406, Lng: -79.9959},
		},
	},
	"RI": {center: models.Coordinates{Lat: 41.6809, Lng: -71.5118}},
	"SC": {center: models.Coordinates{Lat: 33.8569, Lng: -80.9450}},
	"SD": {center: models.Coordinates{Lat: 44.2998, Lng: -99.4388}},
	"TN": {
		center: models.Coordinates{Lat: 35.7478, Lng: -86.6923},
		cities: map[string]models.Coordinates{
			"nashville": {Lat: 36.1627, Lng: -86.7816},
			"memphis":   {Lat: 35.1495, Lng: -90.0490},
		},
	},
	"TX": {
		center: models.Coordinates{Lat: 31.0545, Lng: -97.5635},
		cities: map[string]models.Coordinates{
			"austin":      {Lat: 30.2672, Lng: -97.7431},
			"dallas":      {Lat: 32.7767, Lng: -96.7970},
			"houston":     {Lat: 29.7604, Lng: -95.3698},
			"san antonio": {Lat: 29.4241, Lng: -98.4936},
		},
	},
	"UT": {
		center: models.Coordinates{Lat: 40.1500, Lng: -111.8624},
		cities: map[string]models.Coordinates{
			"salt lake city": {Lat: 40.7608, Lng: -111.8910},
		},
	},
	"VA": {
		center: models.Coordinates{Lat: 37.7693, Lng: -78.1700},
		cities: map[string]models.Coordinates{
			"arlington": {Lat: 38.8816, Lng: -77.0910},
			"richmond":  {Lat: 37.5407, Lng: -77.4360},
		},
	},
	"VT": {center: models.Coordinates{Lat: 44.0459, Lng: -72.7107}},
	"WA": {
		center: models.Coordinates{Lat: 47.4009, Lng: -121.4905},
		cities: map[string]models.Coordinates{
			"seattle":  {Lat: 47.6062, Lng: -122.3321},
			"bellevue": {Lat: 47.6101, Lng: -122.2015},
			"redmond":  {Lat: 47.6740, Lng: -122.1215},
		},
	},
	"WI": {center: models.Coordinates{Lat: 44.2685, Lng: -89.6165}},
	"WV": {center: models.Coordinates{Lat: 38.4912, Lng: -80.9545}},
	"WY": {center: models.Coordinates{Lat: 42.7560, Lng: -107.3025}},

	// Canadian provinces with notable PM communities.
	"ON": {
		center: models.Coordinates{Lat: 51.2538, Lng: -85.3232},
		cities: map[string]models.Coordinates{
			"toronto":  {Lat: 43.6532, Lng: -79.3832},
			"ottawa":   {Lat: 45.4215, Lng: -75.6972},
			"waterloo": {Lat: 43.4643, Lng: -80.5204},
		},
	},
	"BC": {
		center: models.Coordinates{Lat: 53.7267, Lng: -127.6476},
		cities: map[string]models.Coordinates{
			"vancouver": {Lat: 49.2827, Lng: -123.1207},
		},
	},
	"QC": {
		center: models.Coordinates{Lat: 52.9399, Lng: -73.5491},
		cities: map[string]models.Coordinates{
			"montreal": {Lat: 45.5017, Lng: -73.5673},
		},
	},
	"AB": {
		center: models.Coordinates{Lat: 53.9333, Lng: -116.5765},
		cities: map[string]models.Coordinates{
			"calgary":  {Lat: 51.0447, Lng: -114.0719},
			"edmonton": {Lat: 53.5461, Lng: -113.4938},
		},
	},
}
