package pipeline

// Hyperparameter grids searched per model. Grids are kept small so a
// full search stays tractable on a single machine.

func logisticGrid() map[string][]interface{} {
	return map[string][]interface{}{
		"C":        {0.1, 1.0, 10.0},
		"max_iter": {100, 200},
	}
}

func forestGrid() map[string][]interface{} {
	return map[string][]interface{}{
		"n_estimators":      {50, 100, 200},
		"max_depth":         {0, 10, 20},
		"min_samples_split": {2, 5},
	}
}

func gradientBoostingGrid() map[string][]interface{} {
	return map[string][]interface{}{
		"n_estimators":  {100, 200},
		"learning_rate": {0.05, 0.1},
		"max_depth":     {3, 5},
	}
}

func categoricalBoostGrid() map[string][]interface{} {
	return map[string][]interface{}{
		"n_estimators":  {100, 200},
		"learning_rate": {0.05, 0.1},
		"max_depth":     {4, 6},
		"cat_smooth":    {1.0, 10.0},
	}
}
