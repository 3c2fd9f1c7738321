package cli

// demoScenario keeps the binary usable with no input files: a star at the
// origin, two planets, and a moon around the second planet.
const demoScenario = `{
  "name": "demo-system",
  "bodies": [
    {"name": "Helios", "kind": "star", "color": "#fdb813",
     "orbit": {"step_count": 1}},
    {"name": "Ember", "kind": "planet", "parent": "Helios",
     "orbit": {"major_width": 120, "minor_width": 80, "step_count": 88,
               "clockwise": true}},
    {"name": "Cinder", "kind": "planet", "parent": "Helios",
     "orbit": {"major_width": 220, "minor_width": 180, "step_count": 225,
               "step_offset": 40, "rotation_degrees": 12.5,
               "clockwise": true}},
    {"name": "Ash", "kind": "moon", "parent": "Cinder",
     "orbit": {"major_width": 18, "minor_width": 12, "step_count": 27}}
  ]
}`
