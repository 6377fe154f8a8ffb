package model

// Example is the model written by `ppl init`.
const Example = `name: sprinkler
# P(rain | grass is wet)
query: rain_given_wet
nodes:
  rain:
    kind: flip
    p: 0.2
  sprinkler:
    kind: flip
    p: 0.4
  wet:
    kind: or
    of: [rain, sprinkler]
  rain_given_wet:
    kind: given
    of: [rain, wet]
inference:
  strategy: exact
pr:
  threshold: 0.3
`
