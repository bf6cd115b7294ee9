package rx

// The fluent combinator surface. Everything here is sugar that constructs
// core nodes; no node semantics live in this file.

// Map derives a signal by applying f to every successful upstream value.
// Upstream failures pass through untouched; an error from f becomes a
// Failure.
func Map[A, T comparable](rs *ReactiveSystem, src Signal[A], f func(A) (T, error)) *MapSignal[A, T] {
	return MapResult(rs, src, func(cur Result[A]) Result[T] {
		v, err := cur.Get()
		if err != nil {
			return Failure[T](err)
		}
		out, err := f(v)
		if err != nil {
			return Failure[T](err)
		}
		return Success(out)
	})
}

// Filter keeps upstream values pred accepts. A rejected update leaves the
// previously accepted result in place, except when nothing has been
// accepted yet, in which case the new value is kept so the signal never
// exposes the sentinel. Failures propagate unfiltered.
func Filter[T comparable](rs *ReactiveSystem, src Signal[T], pred func(T) bool) *FilterSignal[T] {
	return FilterResult(rs, src, func(prev, cur Result[T]) Result[T] {
		v, err := cur.Get()
		if err != nil {
			return cur
		}
		if pred(v) || !prev.IsSuccess() {
			return cur
		}
		return prev
	})
}

// Reduce folds successive successful upstream values with f, seeded with
// src's current value. When either side is a failure the newest upstream
// result wins; an error from f becomes a Failure.
func Reduce[T comparable](rs *ReactiveSystem, src Signal[T], f func(acc, next T) (T, error)) *FilterSignal[T] {
	return FilterResult(rs, src, func(prev, cur Result[T]) Result[T] {
		acc, accErr := prev.Get()
		next, nextErr := cur.Get()
		if accErr != nil || nextErr != nil {
			return cur
		}
		out, err := f(acc, next)
		if err != nil {
			return Failure[T](err)
		}
		return Success(out)
	})
}

// SkipFailures holds the last successful upstream value, swallowing
// failures once a success has been seen.
func SkipFailures[T comparable](rs *ReactiveSystem, src Signal[T]) *FilterSignal[T] {
	return FilterResult(rs, src, func(prev, cur Result[T]) Result[T] {
		if !cur.IsSuccess() && prev.IsSuccess() {
			return prev
		}
		return cur
	})
}
