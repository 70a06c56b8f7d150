package health

import (
	"sort"
	"sync"
	"time"
)

// Status описывает состояние компонента.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check содержит результат проверки одного компонента.
type Check struct {
	Name     string
	Status   Status
	Message  string
	Duration time.Duration
}

// Response содержит сводный результат всех проверок.
type Response struct {
	Status    Status
	Timestamp time.Time
	// Checks отсортированы по имени.
	Checks  []Check
	Version string
	Uptime  time.Duration
}

// Checker проверяет один компонент.
type Checker interface {
	Check() Check
}

// Registry хранит зарегистрированные проверки; результат выводится на экран
// «System info» и в лог при старте.
type Registry struct {
	mu        sync.RWMutex
	checkers  map[string]Checker
	version   string
	startTime time.Time
	now       func() time.Time
}

// NewRegistry создаёт пустой набор проверок.
func NewRegistry(version string) *Registry {
	return &Registry{
		checkers:  make(map[string]Checker),
		version:   version,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// RegisterChecker регистрирует проверку компонента. Повторная регистрация заменяет прежнюю.
func (r *Registry) RegisterChecker(name string, checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Evaluate выполняет все проверки.
func (r *Registry) Evaluate() Response {
	r.mu.RLock()
	checkers := make(map[string]Checker, len(r.checkers))
	for k, v := range r.checkers {
		checkers[k] = v
	}
	r.mu.RUnlock()

	resp := Evaluate(checkers)
	resp.Version = r.version
	resp.Timestamp = r.now()
	resp.Uptime = resp.Timestamp.Sub(r.startTime)
	return resp
}

// Evaluate выполняет проверки и сводит их статусы:
// хотя бы один unhealthy → unhealthy, иначе хотя бы один degraded → degraded.
func Evaluate(checkers map[string]Checker) Response {
	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	overall := StatusHealthy
	checks := make([]Check, 0, len(names))
	for _, name := range names {
		check := checkers[name].Check()
		if check.Name == "" {
			check.Name = name
		}
		checks = append(checks, check)

		if check.Status == StatusUnhealthy {
			overall = StatusUnhealthy
		} else if check.Status == StatusDegraded && overall == StatusHealthy {
			overall = StatusDegraded
		}
	}
	return Response{
		Status:    overall,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}

// SimpleChecker простая проверка с функцией
type SimpleChecker struct {
	name    string
	checkFn func() error
}

// NewSimpleChecker создаёт простую проверку
func NewSimpleChecker(name string, checkFn func() error) *SimpleChecker {
	return &SimpleChecker{
		name:    name,
		checkFn: checkFn,
	}
}

// Check выполняет проверку
func (c *SimpleChecker) Check() Check {
	start := time.Now()
	err := c.checkFn()
	duration := time.Since(start)

	if err != nil {
		return Check{
			Name:     c.name,
			Status:   StatusUnhealthy,
			Message:  err.Error(),
			Duration: duration,
		}
	}

	return Check{
		Name:     c.name,
		Status:   StatusHealthy,
		Duration: duration,
	}
}

// DegradedChecker понижает ошибку проверки до degraded: компонент нужен,
// но без него программа продолжает работать.
type DegradedChecker struct {
	inner Checker
}

// NewDegradedChecker оборачивает проверку.
func NewDegradedChecker(inner Checker) *DegradedChecker {
	return &DegradedChecker{inner: inner}
}

// Check выполняет вложенную проверку.
func (c *DegradedChecker) Check() Check {
	check := c.inner.Check()
	if check.Status == StatusUnhealthy {
		check.Status = StatusDegraded
	}
	return check
}
