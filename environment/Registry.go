package environment

import (
	"fmt"
	"sort"
)

// Capability tags the abstract role a registered constructor fills.
type Capability int

const (
	PhysicalSystems Capability = iota
	ReferenceGenerators
	RewardFunctions
	Visualizations
	Environments
)

func (c Capability) String() string {
	switch c {
	case PhysicalSystems:
		return "PhysicalSystems"
	case ReferenceGenerators:
		return "ReferenceGenerators"
	case RewardFunctions:
		return "RewardFunctions"
	case Visualizations:
		return "Visualizations"
	case Environments:
		return "Environments"
	}
	return "Unknown"
}

// Kwargs are free-form keyword arguments forwarded verbatim to every
// constructor resolved through the registry. Constructors read the
// keys they understand and ignore the rest.
type Kwargs map[string]interface{}

// Float returns the float64 stored under name, or def if the key is
// absent or not a float64.
func (k Kwargs) Float(name string, def float64) float64 {
	if v, ok := k[name].(float64); ok {
		return v
	}
	return def
}

// Int returns the int stored under name, or def if the key is absent
// or not an int.
func (k Kwargs) Int(name string, def int) int {
	if v, ok := k[name].(int); ok {
		return v
	}
	return def
}

// Uint64 returns the uint64 stored under name, or def if the key is
// absent or not a uint64.
func (k Kwargs) Uint64(name string, def uint64) uint64 {
	if v, ok := k[name].(uint64); ok {
		return v
	}
	return def
}

// String returns the string stored under name, or def if the key is
// absent or not a string.
func (k Kwargs) String(name string, def string) string {
	if v, ok := k[name].(string); ok {
		return v
	}
	return def
}

// Strings returns the string slice stored under name, or nil
func (k Kwargs) Strings(name string) []string {
	v, _ := k[name].([]string)
	return v
}

// Constructor builds a module instance from keyword arguments.
type Constructor func(Kwargs) (interface{}, error)

var registry = map[Capability]map[string]Constructor{}

// Register makes a named constructor available for a capability.
// Registering the same name twice for one capability panics, since two
// packages claiming one key is a programming error.
func Register(c Capability, name string, ctor Constructor) {
	if registry[c] == nil {
		registry[c] = map[string]Constructor{}
	}
	if _, ok := registry[c][name]; ok {
		panic(fmt.Sprintf("register: %v constructor %q registered twice",
			c, name))
	}
	registry[c][name] = ctor
}

// Registered returns the names registered for a capability in sorted
// order.
func Registered(c Capability) []string {
	names := make([]string, 0, len(registry[c]))
	for name := range registry[c] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate resolves a module key for a capability. A key that is
// already an instance of the capability's interface is returned
// unchanged; a string key is looked up in the registry and its
// constructor called with the given kwargs. Anything else fails.
func Instantiate(c Capability, key interface{},
	kwargs Kwargs) (interface{}, error) {
	if key == nil {
		return nil, fmt.Errorf("instantiate: no %v key given", c)
	}
	if satisfies(c, key) {
		return key, nil
	}

	name, ok := key.(string)
	if !ok {
		return nil, fmt.Errorf("instantiate: %v key must be an instance "+
			"or a registered name, got %T", c, key)
	}
	ctor, ok := registry[c][name]
	if !ok {
		return nil, fmt.Errorf("instantiate: no %v registered under %q",
			c, name)
	}

	instance, err := ctor(kwargs)
	if err != nil {
		return nil, fmt.Errorf("instantiate: constructing %v %q: %v",
			c, name, err)
	}
	if !satisfies(c, instance) {
		return nil, fmt.Errorf("instantiate: constructor %q returned a %T, "+
			"which is no %v instance", name, instance, c)
	}
	return instance, nil
}

// satisfies returns whether key is already an instance of the
// capability's interface.
func satisfies(c Capability, key interface{}) bool {
	switch c {
	case PhysicalSystems:
		_, ok := key.(PhysicalSystem)
		return ok
	case ReferenceGenerators:
		_, ok := key.(ReferenceGenerator)
		return ok
	case RewardFunctions:
		_, ok := key.(RewardFunction)
		return ok
	case Visualizations:
		_, ok := key.(Visualization)
		return ok
	case Environments:
		_, ok := key.(*ElectricMotorEnv)
		return ok
	}
	return false
}

// Make builds a complete registered environment by symbolic name.
func Make(name string, kwargs Kwargs) (*ElectricMotorEnv, error) {
	instance, err := Instantiate(Environments, name, kwargs)
	if err != nil {
		return nil, fmt.Errorf("make: %v", err)
	}
	return instance.(*ElectricMotorEnv), nil
}
